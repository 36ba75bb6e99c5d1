package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core/backup"
)

// export writes the backup to `path`, or to the output when empty.
// Files and terminals get the indented encoding.
func (cli *commandLine) export(ctx context.Context, path string, upload bool) error {
	if upload && cli.uploader == nil {
		return errNoUploader
	}
	f := cli.svc.Export()

	var w io.Writer = cli.out
	pretty := cli.stdoutIsTerminal()
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "creating backup file")
		}
		defer file.Close()
		w, pretty = file, true
	}
	if err := backup.Encode(w, f, pretty); err != nil {
		return err
	}

	if upload {
		data, err := backup.Marshal(f)
		if err != nil {
			return err
		}
		if err = cli.uploader.Upload(ctx, backup.Filename(f.ExportDate), data); err != nil {
			return err
		}
	}
	return nil
}

func (cli *commandLine) importBackup(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening backup file")
	}
	defer file.Close()

	f, err := backup.Decode(file, cli.validate)
	if err != nil {
		return err
	}
	stats := cli.svc.Import(f)
	fmt.Fprintf(cli.out, "imported: %d assignments, %d attendance records, %d journal entries\n",
		stats.Assignments, stats.Attendance, stats.Journal)
	return nil
}

func (cli *commandLine) clearData() error {
	eb := cli.svc.ClearData()
	fmt.Fprintf(cli.out, "records cleared at %s, previous data kept under %q\n", eb.ClearedAt.Format("2006-01-02 15:04:05"), "error_backup")
	return nil
}
