package user_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/user"
	"github.com/trezcool/cgpa/services/email"
	"github.com/trezcool/cgpa/storage/database/inmem"
	"github.com/trezcool/cgpa/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	conf := core.NewTestConfig()
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	repo := inmemdb.NewUserRepository(inmemdb.Open())
	emailsvc.ResetSentMessages()
	return user.NewService(repo, emailsvc.NewConsoleServiceMock(conf), validate, conf), repo
}

// fieldErrors maps the fields of a validator error to their tag.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var vErrs validator.ValidationErrors
	require.True(t, errors.As(err, &vErrs), "not a validator error: %v", err)
	flds := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		flds[fe.Field()] = fe.Tag()
	}
	return flds
}

func TestService_Create(t *testing.T) {
	svc, repo := setup(t)
	testutil.CreateUser(t, repo, "Taken", "taken@test.ng", "", true)

	newUser := func(name, email, pwd string) user.NewUser {
		return user.NewUser{Name: name, Email: email, Password: pwd, PasswordConfirm: pwd}
	}

	tests := []struct {
		name       string
		nu         user.NewUser
		wantFields map[string]string
		wantErr    error
	}{
		{
			name:       "required fields",
			wantFields: map[string]string{"name": "required", "email": "required", "password": "required", "passwordConfirm": "required"},
		},
		{name: "invalid email", nu: newUser("Ada", "lol", "Tr0ub4dor&3"), wantFields: map[string]string{"email": "email"}},
		{name: "password: min len", nu: newUser("Ada", "ada@test.ng", "lol"), wantFields: map[string]string{"password": "pwdminlen"}},
		{name: "password: whitespace", nu: newUser("Ada", "ada@test.ng", "l o loll"), wantFields: map[string]string{"password": "pwdnospace"}},
		{name: "password: all numeric", nu: newUser("Ada", "ada@test.ng", "12345678"), wantFields: map[string]string{"password": "pwdnotallnum"}},
		{name: "password: similar to email", nu: newUser("Ada", "lovelace@test.ng", "Lovelace@test"), wantFields: map[string]string{"password": "pwdtoosim"}},
		{
			name:       "password confirm mismatch",
			nu:         user.NewUser{Name: "Ada", Email: "ada@test.ng", Password: "Tr0ub4dor&3", PasswordConfirm: "lol"},
			wantFields: map[string]string{"passwordConfirm": "eqfield"},
		},
		{name: "email taken", nu: newUser("Ada", " TAKEN@test.ng ", "Tr0ub4dor&3"), wantErr: user.ErrEmailExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.nu)
			require.Error(t, err)
			if tt.wantErr != nil {
				var vErr *core.ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.wantErr, vErr.Err)
				assert.Equal(t, []core.FieldError{{Field: "email", Error: tt.wantErr.Error()}}, vErr.Fields)
				return
			}
			assert.Equal(t, tt.wantFields, fieldErrors(t, err))
		})
	}
	assert.Empty(t, emailsvc.LastSentMessages())

	t.Run("created", func(t *testing.T) {
		nu := user.NewUser{
			Name:            " Ada Lovelace ",
			Email:           "Ada@Test.NG",
			MatricNumber:    "CSC/2020/001",
			Password:        "Tr0ub4dor&3",
			PasswordConfirm: "Tr0ub4dor&3",
		}
		usr, err := svc.Create(context.Background(), nu)
		require.NoError(t, err)

		assert.NotEmpty(t, usr.ID)
		assert.Equal(t, "Ada Lovelace", usr.Name)
		assert.Equal(t, "ada@test.ng", usr.Email)
		assert.Equal(t, "CSC/2020/001", usr.MatricNumber)
		assert.True(t, usr.IsActive)
		assert.NoError(t, usr.CheckPassword("Tr0ub4dor&3"))
		assert.True(t, usr.LastLogin.IsZero())

		sent := emailsvc.LastSentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "ada@test.ng", sent[0].To[0].Address)
		assert.Equal(t, "Welcome", sent[0].Subject)
		assert.Contains(t, sent[0].Body, "Hi Ada Lovelace,")
	})
}

func TestService_GetByEmail(t *testing.T) {
	svc, repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Ada", "ada@test.ng", "", true)

	got, err := svc.GetByEmail(context.Background(), " ADA@test.ng")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByEmail(context.Background(), "")
	assert.Equal(t, user.ErrNotFound, err)
	_, err = svc.GetByEmail(context.Background(), "lol@test.ng")
	assert.Equal(t, user.ErrNotFound, err)

	got, err = svc.GetByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.Email, got.Email)
	_, err = svc.GetByID(context.Background(), "")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_SetLastLogin(t *testing.T) {
	svc, repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Ada", "ada@test.ng", "", true)

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	user.NowFunc = func() time.Time { return now }
	defer func() { user.NowFunc = time.Now }()

	usr, err := svc.SetLastLogin(context.Background(), usr)
	require.NoError(t, err)
	assert.Equal(t, now, usr.LastLogin)

	refreshed, err := repo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.Equal(t, now, refreshed.LastLogin)
}

func TestService_ChangePassword(t *testing.T) {
	svc, repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Ada", "ada@test.ng", "Tr0ub4dor&3", true)

	_, err := svc.ChangePassword(context.Background(), usr, user.SetPassword{Password: "Ada@test.ng", PasswordConfirm: "Ada@test.ng"})
	assert.Equal(t, map[string]string{"password": "pwdtoosim"}, fieldErrors(t, err))

	_, err = svc.ChangePassword(context.Background(), usr, user.SetPassword{Password: "correct-horse", PasswordConfirm: "correct-hors"})
	assert.Equal(t, map[string]string{"passwordConfirm": "eqfield"}, fieldErrors(t, err))

	usr, err = svc.ChangePassword(context.Background(), usr, user.SetPassword{Password: "correct-horse", PasswordConfirm: "correct-horse"})
	require.NoError(t, err)
	refreshed, err := repo.GetUser(context.Background(), user.GetFilter{Email: "ada@test.ng"})
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("correct-horse"))
	assert.Error(t, refreshed.CheckPassword("Tr0ub4dor&3"))
}

func TestService_passwordReset(t *testing.T) {
	svc, repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Ada", "ada@test.ng", "Tr0ub4dor&3", true)
	testutil.CreateUser(t, repo, "Naughty", "naughty@test.ng", "Tr0ub4dor&3", false)
	ctx := context.Background()

	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset(ctx, "lol@test.ng"))
	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset(ctx, "naughty@test.ng"))
	assert.Empty(t, emailsvc.LastSentMessages())

	require.NoError(t, svc.RequestPasswordReset(ctx, "ada@test.ng"))
	sent := emailsvc.LastSentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Password reset", sent[0].Subject)

	// link: <frontend>/password-reset/<uid>/<token>
	uid := user.EncodeUID(usr)
	prefix := "/password-reset/" + uid + "/"
	idx := strings.Index(sent[0].Body, prefix)
	require.NotEqual(t, -1, idx, sent[0].Body)
	token := strings.Fields(sent[0].Body[idx+len(prefix):])[0]

	newPwd := user.SetPassword{Password: "correct-horse", PasswordConfirm: "correct-horse"}
	invalid := func(field string) error {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid value"})
	}

	tests := []struct {
		name    string
		rp      user.ResetPassword
		wantErr error
	}{
		{name: "invalid uid", rp: user.ResetPassword{UID: "not base64!", Token: token, SetPassword: newPwd}, wantErr: invalid("uid")},
		{name: "unknown uid", rp: user.ResetPassword{UID: "bG9s", Token: token, SetPassword: newPwd}, wantErr: invalid("uid")},
		{name: "invalid token", rp: user.ResetPassword{UID: uid, Token: "HE4TS-sigsig-sig", SetPassword: newPwd}, wantErr: invalid("token")},
		{name: "valid token", rp: user.ResetPassword{UID: uid, Token: token, SetPassword: newPwd}},
		{name: "token already used", rp: user.ResetPassword{UID: uid, Token: token, SetPassword: newPwd}, wantErr: invalid("token")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ResetPassword(ctx, tt.rp)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	refreshed, err := repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("correct-horse"))
}
