package main

import (
	"fmt"
	"time"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/report"
)

var nowFunc = time.Now // mockable

func (cli *commandLine) report(email bool, to []string) error {
	state := cli.svc.State()
	p := report.NewProgress(state.Collections, state.Student, nowFunc())
	if !email {
		return report.RenderText(cli.out, p)
	}

	if len(to) == 0 {
		to = cli.conf.Mail.ReportRecipients
	}
	addrs, err := core.ParseAddresses(to)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return errHelp
	}
	msg, err := report.EmailMessage(p, addrs)
	if err != nil {
		return err
	}
	if err = cli.mailSvc.SendMessages(msg); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "report sent to %d recipient(s)\n", len(addrs))
	return nil
}

// student prints the student, after applying the given changes.
func (cli *commandLine) student(name, grade, year string) error {
	si := cli.svc.Student()
	if name != "" || grade != "" || year != "" {
		if name != "" {
			si.Name = name
		}
		if grade != "" {
			si.Grade = grade
		}
		if year != "" {
			si.SchoolYear = year
		}
		var err error
		if si, err = cli.svc.UpdateStudent(si); err != nil {
			return err
		}
	}
	fmt.Fprintf(cli.out, "%s, %s, %s\n", si.Name, si.Grade, si.SchoolYear)
	return nil
}

