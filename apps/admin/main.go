package main

import (
	"errors"
	"log"
	"os"

	"github.com/trezcool/academia/apps/shared"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
	emailsvc "github.com/trezcool/academia/services/email"
	"github.com/trezcool/academia/services/ratelimit"
	"github.com/trezcool/academia/storage/database"
)

func main() {
	logger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	store, err := database.NewStore(conf)
	if err != nil {
		logger.Fatal(err)
	}

	validate, _ := shared.NewValidator()
	cli := commandLine{
		db: store.SQL,
		usrSvc: user.NewService(
			store.Users,
			store.Persons,
			emailsvc.NewConsoleService(conf, logger),
			ratelimit.NewMemoryLimiter(),
			conf,
		),
		validate: validate,
	}

	err = cli.run(os.Args)
	_ = store.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
