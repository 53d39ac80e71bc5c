package main

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

// addUser creates a user, or updates the password and role of an existing one and reactivates it.
func (cli *commandLine) addUser(uname, pwd, role string, personID int64) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		nu := user.NewUser{
			PersonID: personID,
			Username: uname,
			Password: pwd,
			Role:     role,
		}
		if err = nu.Validate(cli.validate); err != nil {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, nu)
		return err
	}

	active := user.Active
	uu := user.UpdateUser{Password: &pwd, Role: &role, IsActive: &active}
	if err = uu.Validate(usr, cli.validate); err != nil {
		return err
	}
	_, err = cli.usrSvc.Update(ctx, usr.ID, uu)
	return err
}
