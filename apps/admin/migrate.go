package main

import (
	"context"

	remotestore "github.com/trezcool/homeschool/storage/remote"
)

var gooseRunFunc = remotestore.Migrate // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if !cli.remote.Enabled() {
		return errRemoteDisabled
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(ctx, cli.remote.DB(), args[0], arguments...)
}
