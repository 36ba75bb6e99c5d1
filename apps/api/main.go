package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/trezcool/homeschool/apps/api/di/dig"
	echoapi "github.com/trezcool/homeschool/apps/api/echo"
	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/tracker"
	localstore "github.com/trezcool/homeschool/storage/local"
	remotestore "github.com/trezcool/homeschool/storage/remote"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		remote *remotestore.Store,
		validate *validator.Validate,
		translator ut.Translator,
		svc *tracker.Service,
		autoBackup *localstore.AutoBackup,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.InitValidators(validate, translator)
		records.InitValidators(validate, translator)

		defer func() {
			if err := remote.Close(); err != nil {
				apiLogger.Error("failed to close remote store", err)
			}
		}()
		// queued error reports are sent before exiting
		if f, ok := apiLogger.(interface{ Flush() }); ok {
			defer f.Flush()
		}
		defer apiLogger.Info("Application stopped")

		ctx, stop := context.WithCancel(context.Background())
		defer stop()

		if remote.Enabled() {
			if err := remote.WaitReady(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("waiting for remote store: %v", err), err)
			} else if err = remotestore.Migrate(ctx, remote.DB(), "up"); err != nil {
				apiLogger.Error(fmt.Sprintf("migrating remote store: %v", err), err)
			}
		}

		// remote failures only degrade the sync status
		if err := svc.Load(ctx); err != nil {
			apiLogger.Warn(fmt.Sprintf("remote sync failed on load: %v", err))
		}
		defer svc.Close()

		if conf.Storage.BackupInterval > 0 {
			go autoBackup.Run(ctx)
		}

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
