package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/cgpa"
	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
	"github.com/trezcool/cgpa/services/email"
	"github.com/trezcool/cgpa/storage/database/inmem"
	"github.com/trezcool/cgpa/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	conf := core.NewTestConfig()
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)

	// start CLI
	var out bytes.Buffer
	return &commandLine{
		usrSvc: user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf), validate, conf),
		resSvc: result.NewService(inmemdb.NewResultRepository(db)),
		out:    &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	if err != nil {
		if tt.wantErr != nil {
			if errors.Cause(err) != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		} else if tt.wantErrStr != "" {
			if err.Error() != tt.wantErrStr {
				t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
			}
		} else {
			t.Errorf("cli.run() unexpected error = %v", err)
		}
	} else if tt.wantErr != nil || tt.wantErrStr != "" {
		t.Errorf("cli.run() error = nil, wantErr %v", tt.wantErr)
	}
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var gotDir string
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		gotDir = dir
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "add_course_unit", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}
	assert.Equal(t, "migrations", gotDir)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, _ := setup(t)
	testutil.CreateUser(t, usrRepo, "Taken", "taken@test.ng", "", true)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no name", args: []string{"adduser", "-email", "ada@test.ng"}, extra: "correct-horse", wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "ada@test.ng", "-name", "Ada"}, wantErr: errHelp},
		{name: "email taken", args: []string{"adduser", "-email", "taken@test.ng", "-name", "Ada"}, extra: "correct-horse", wantErrStr: user.ErrEmailExists.Error()},
		{name: "weak password", args: []string{"adduser", "-email", "ada@test.ng", "-name", "Ada"}, extra: "lol", wantErrStr: "Key: 'NewUser.password' Error:Field validation for 'password' failed on the 'pwdminlen' tag"},
		{name: "created", args: []string{"adduser", "-email", "ADA@test.ng", "-name", "Ada", "-matric", "U2020/1234"}, extra: "correct-horse"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		pwd, _ := tt.extra.(string)
		mockPassword(pwd)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{Email: "ada@test.ng"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", usr.Name)
	assert.Equal(t, "U2020/1234", usr.MatricNumber)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("correct-horse"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.ng", "correct-horse", true)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.ng"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.ng"}, extra: "battery-staple", wantErr: user.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-email", usr.Email}, extra: "12345678", wantErrStr: "Key: 'SetPassword.password' Error:Field validation for 'password' failed on the 'pwdnotallnum' tag"},
		{name: "reset", args: []string{"resetpassword", "-email", " ADA@test.ng "}, extra: "battery-staple"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		pwd, _ := tt.extra.(string)
		mockPassword(pwd)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.False(t, bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash), "failed to update new password")
	assert.NoError(t, refreshedUsr.CheckPassword("battery-staple"))
}

func Test_commandLine_report(t *testing.T) {
	cli, out := setup(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.ng", "", true)
	testutil.CreateUser(t, usrRepo, "Bob", "bob@test.ng", "", true)

	testutil.UploadResult(t, cli.resSvc, ada, testutil.NewResult("CSC101", 3, 100, result.FirstSemester, "2022/2023", 75))
	testutil.UploadResult(t, cli.resSvc, ada, testutil.NewResult("PHY102", 2, 100, result.SecondSemester, "2022/2023", 41))
	testutil.UploadResult(t, cli.resSvc, ada, testutil.NewResult("CSC201", 3, 200, result.FirstSemester, "2023/2024", 64))

	tests := []cliTest{
		{name: "no args", args: []string{"report"}, wantErr: errHelp},
		{name: "user not found", args: []string{"report", "-email", "lol@test.ng"}, wantErr: user.ErrNotFound},
		{name: "no results", args: []string{"report", "-email", "bob@test.ng"}, extra: []string{"no results uploaded yet"}},
		{
			name: "report",
			args: []string{"report", "-email", "ada@test.ng"},
			extra: []string{
				"CGPA report of Ada <ada@test.ng>",
				"3.63",              // overall: 29/8
				"3.40",              // level 100: 17/5
				"4.00",              // level 200: 12/3
				"2023/2024 - First", // semester
				"PHY102",            // weak course
				cgpa.InsightEGrades,
			},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			checkErr(t, tt, cli.run(args))
			if want, ok := tt.extra.([]string); ok {
				for _, s := range want {
					assert.Contains(t, out.String(), s)
				}
			}
		})
	}
}
