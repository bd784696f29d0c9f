package main

import (
	"context"
	"fmt"

	"github.com/trezcool/cgpa/core/user"
)

// addUser creates an active user.User; the password policy applies.
func (cli *commandLine) addUser(name, email, matric, pwd string) error {
	usr, err := cli.usrSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Email:           email,
		MatricNumber:    matric,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s <%s> created: %s\n", usr.Name, usr.Email, usr.ID)
	return nil
}
