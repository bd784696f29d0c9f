package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/cgpa/core"
)

// User is a student tracking their results.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MatricNumber string    `json:"matricNumber,omitempty"`
	IsActive     bool      `json:"isActive"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
	LastLogin    time.Time `json:"lastLogin"` // UTC; zero if never logged in
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required,notblank"`
	Email           string `json:"email" validate:"required,email"`
	MatricNumber    string `json:"matricNumber" validate:"omitempty,max=32"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.MatricNumber = core.CleanString(nu.MatricNumber)
	return validate.Struct(nu)
}

// SetPassword contains the new password of a User.
type SetPassword struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`

	// compared against the password
	name, email string
}

func (sp *SetPassword) Validate(validate *validator.Validate, usr User) error {
	sp.name = usr.Name
	sp.email = usr.Email
	return validate.Struct(sp)
}

// ResetPassword confirms a password reset requested by email.
type ResetPassword struct {
	UID   string `json:"uid" validate:"required"`
	Token string `json:"token" validate:"required"`
	SetPassword
}

type GetFilter struct {
	ID    string
	Email string
}
