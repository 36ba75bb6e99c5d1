package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/tracker"
	localstore "github.com/trezcool/homeschool/storage/local"
	remotestore "github.com/trezcool/homeschool/storage/remote"
)

type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	records.InitValidators(validate, translator)
	return validate, translator
}

// NewService returns a loaded service backed by memory, without remote sync.
func NewService(t *testing.T, conf *core.Config) (*tracker.Service, *localstore.Store) {
	t.Helper()
	validate, translator := NewValidator()
	remote, err := remotestore.Open(core.RemoteConfig{})
	if err != nil {
		t.Fatalf("remotestore.Open() failed: %v", err)
	}
	local := localstore.NewStore(localstore.NewMemoryBackend(0), NopLogger{})
	svc := tracker.NewServiceMock(conf, local, remote, validate, translator, NopLogger{})
	if err = svc.Load(context.Background()); err != nil {
		t.Fatalf("svc.Load() failed: %v", err)
	}
	return svc, local
}
