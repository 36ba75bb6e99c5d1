package dig_container

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/homeschool/apps/api/echo"
	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/tracker"
	emailsvc "github.com/trezcool/homeschool/services/email"
	logsvc "github.com/trezcool/homeschool/services/logger"
	"github.com/trezcool/homeschool/storage/archive"
	localstore "github.com/trezcool/homeschool/storage/local"
	remotestore "github.com/trezcool/homeschool/storage/remote"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newLocalStore keeps the records under conf.Storage.Dir, or in memory when unset.
func newLocalStore(conf *core.Config, loggerParam StoreLoggerParam) *localstore.Store {
	var backend localstore.Backend = localstore.NewMemoryBackend(conf.Storage.QuotaBytes)
	if conf.Storage.Dir != "" {
		dir, err := localstore.NewDirBackend(conf.Storage.Dir, conf.Storage.QuotaBytes)
		if err != nil {
			loggerParam.Logger.Fatal("setting up local store", err)
		}
		backend = dir
	}
	return localstore.NewStore(backend, loggerParam.Logger)
}

func newRemoteStore(conf *core.Config, loggerParam StoreLoggerParam) *remotestore.Store {
	remote, err := remotestore.Open(conf.Remote)
	if err != nil {
		loggerParam.Logger.Fatal("setting up remote store", err)
	}
	return remote
}

// newUploader returns nil when no archive is configured.
func newUploader(conf *core.Config, logger core.Logger) localstore.Uploader {
	u, err := archive.New(conf.Archive, conf.AppName)
	if err != nil {
		logger.Fatal("setting up backup archive", err)
	}
	if u == nil {
		return nil
	}
	return u
}

func newAutoBackup(
	conf *core.Config,
	store *localstore.Store,
	svc *tracker.Service,
	uploader localstore.Uploader,
	loggerParam StoreLoggerParam,
) *localstore.AutoBackup {
	return localstore.NewAutoBackup(store, svc.Export, conf.Storage.BackupInterval, uploader, loggerParam.Logger)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newLocalStore))
	must(c.Provide(func(s *localstore.Store) tracker.LocalStore { return s }))
	must(c.Provide(newRemoteStore))
	must(c.Provide(func(s *remotestore.Store) tracker.RemoteStore { return s }))
	must(c.Provide(newUploader))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(tracker.NewService))
	must(c.Provide(newAutoBackup))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
