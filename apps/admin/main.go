package main

import (
	"context"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/trezcool/homeschool/apps/api/di/dig"
	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/tracker"
	localstore "github.com/trezcool/homeschool/storage/local"
	remotestore "github.com/trezcool/homeschool/storage/remote"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	c := dig_container.New()
	code := 0
	errAndDie(c.Invoke(func(
		conf *core.Config,
		svc *tracker.Service,
		remote *remotestore.Store,
		uploader localstore.Uploader,
		mailSvc core.EmailService,
		validate *validator.Validate,
		translator ut.Translator,
	) {
		core.InitValidators(validate, translator)
		records.InitValidators(validate, translator)
		defer remote.Close()

		// migrations must run before the remote state is read
		if len(os.Args) < 2 || os.Args[1] != "migrate" {
			if err := svc.Load(context.Background()); err != nil {
				logger.Printf("remote sync failed: %v", err)
			}
		}
		defer svc.Close()

		cli := commandLine{
			conf:     conf,
			svc:      svc,
			remote:   remote,
			uploader: uploader,
			mailSvc:  mailSvc,
			validate: validate,
			out:      os.Stdout,
		}
		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				logger.Printf("\nerror: %s\n", err)
			}
			code = 1
		}
	}))
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
