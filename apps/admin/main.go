package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
	"github.com/trezcool/cgpa/services/email"
	"github.com/trezcool/cgpa/services/logger"
	"github.com/trezcool/cgpa/storage/database"
	"github.com/trezcool/cgpa/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// set up services
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	// the CLI exits before async emails are sent: print them instead
	mailSvc := emailsvc.NewSyncConsoleService(conf, os.Stdout)

	// start CLI
	cli := commandLine{
		db:     db.DB,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, validate, conf),
		resSvc: result.NewService(sqlxrepos.NewResultRepository(db)),
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s", err), err)
		}
		os.Exit(1)
	}
}
