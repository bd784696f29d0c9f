package main

import (
	"context"

	"github.com/trezcool/cgpa/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.ChangePassword(ctx, usr, user.SetPassword{Password: pwd, PasswordConfirm: pwd})
	return err
}
