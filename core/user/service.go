package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	errInvalidValue = "invalid value"
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists if a User other than excludedUsers has email.
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser returns the User matching all the set fields of filter; ErrNotFound if none.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		validate *validator.Validate
		tokenGen tokenGenerator
		conf     *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		mailSvc:  mailSvc,
		validate: validate,
		tokenGen: tokenGenerator{
			secretKey: []byte(conf.SecretKey),
			timeout:   conf.Server.PasswordResetTimeoutDelta,
		},
		conf: conf,
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclUsers...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

// Create validates nu, saves a new active User & sends them a welcome email.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	now := NowFunc().UTC()
	usr := User{
		Name:         nu.Name,
		Email:        nu.Email,
		MatricNumber: nu.MatricNumber,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrEmailExists { // lost a race
			return User{}, svc.checkUniqueness(ctx, nu.Email)
		}
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.mailSvc.SendMessages(welcomeMessage(usr, svc.conf))
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" {
		return User{}, ErrNotFound
	}
	return svc.repo.GetUser(ctx, GetFilter{Email: email})
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// ChangePassword validates sp against the password policy & saves the new password of usr.
func (svc *Service) ChangePassword(ctx context.Context, usr User, sp SetPassword) (User, error) {
	if err := sp.Validate(svc.validate, usr); err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(sp.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// RequestPasswordReset emails a password reset link to the active User with email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}
	svc.mailSvc.SendMessages(passwordResetMessage(usr, svc.tokenGen.makeToken(usr), svc.conf))
	return nil
}

// ResetPassword sets the new password of the User identified by rp.UID, if rp.Token is valid.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetPassword) (User, error) {
	if err := svc.validate.Struct(rp); err != nil {
		return User{}, err
	}

	invalid := func(field string) error {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: errInvalidValue})
	}
	id, err := decodeUID(rp.UID)
	if err != nil {
		return User{}, invalid("uid")
	}
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, invalid("uid")
		}
		return User{}, errors.Wrap(err, "finding user by ID")
	}
	if err = svc.tokenGen.verifyToken(usr, rp.Token); err != nil {
		return User{}, invalid("token")
	}

	return svc.ChangePassword(ctx, usr, rp.SetPassword)
}
