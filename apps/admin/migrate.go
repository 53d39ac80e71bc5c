package main

import (
	"context"
	"errors"

	"github.com/trezcool/academia/storage/database"
)

var (
	runMigrationsFunc = database.RunMigrations // mockable

	errNoSQLDatabase = errors.New("migrations require the postgres engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDatabase
	}
	return runMigrationsFunc(context.Background(), args[0], cli.db, args[1:]...)
}
