package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/tracker"
	localstore "github.com/trezcool/homeschool/storage/local"
	remotestore "github.com/trezcool/homeschool/storage/remote"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp           = errors.New("help provided")
	errRemoteDisabled = errors.New("remote store is not configured")
	errNoUploader     = errors.New("backup archive is not configured")
)

type commandLine struct {
	conf     *core.Config
	svc      *tracker.Service
	remote   *remotestore.Store
	uploader localstore.Uploader // nil: archive disabled
	mailSvc  core.EmailService
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS]               - run a goose migration command against the remote store")
	fmt.Println("  export [-o FILE] [-upload]           - write a backup file, to stdout by default")
	fmt.Println("  import -f FILE                       - replace the records with the content of a backup file")
	fmt.Println("  report [-email] [-to ADDR,ADDR]      - print the progress report, or email it")
	fmt.Println("  student [-name N] [-grade G] [-year Y] - show or update the student")
	fmt.Println("  cleardata -force                     - clear the local records, keeping a raw copy")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportOut := exportCmd.String("o", "", "The file to write. Defaults to stdout.")
	exportUpload := exportCmd.Bool("upload", false, "Also upload the backup to the archive.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("f", "", "The backup file to import.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportEmail := reportCmd.Bool("email", false, "Email the report instead of printing it.")
	reportTo := reportCmd.String("to", "", "Comma separated recipients. Defaults to the configured recipients.")

	studentCmd := flag.NewFlagSet("student", flag.ContinueOnError)
	studentName := studentCmd.String("name", "", "The student's name.")
	studentGrade := studentCmd.String("grade", "", "The student's grade level.")
	studentYear := studentCmd.String("year", "", "The school year, e.g. 2025-2026.")

	clearCmd := flag.NewFlagSet("cleardata", flag.ContinueOnError)
	clearForce := clearCmd.Bool("force", false, "Confirm the records should be cleared.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.export(ctx, *exportOut, *exportUpload)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importBackup(*importFile)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.report(*reportEmail, core.SplitTags(*reportTo))
	case "student":
		if err := studentCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.student(*studentName, *studentGrade, *studentYear)
	case "cleardata":
		if err := clearCmd.Parse(args[2:]); err != nil {
			return err
		}
		if !*clearForce {
			clearCmd.Usage()
			return errHelp
		}
		return cli.clearData()
	default:
		cli.printUsage()
		return errHelp
	}
}

// stdoutIsTerminal reports whether the output is an interactive terminal.
func (cli *commandLine) stdoutIsTerminal() bool {
	f, ok := cli.out.(*os.File)
	return ok && isTerminalFunc(int(f.Fd()))
}
