package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/school"
)

// RollbarLogger writes every entry to std and reports it to Rollbar when a
// token is configured outside debug mode.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Address)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(!conf.Debug && conf.RollbarToken != "")
	return &RollbarLogger{std: std}
}

// Flush blocks until the queued Rollbar items are sent.
func (l *RollbarLogger) Flush() {
	rollbar.Wait()
}

// splitArgs pulls the first school.StudentInfo out of args; the rest are
// forwarded to Rollbar as is (error, map[string]interface{}).
func splitArgs(args []interface{}) (rest []interface{}, student *school.StudentInfo) {
	rest = make([]interface{}, 0, len(args))
	for _, arg := range args {
		if si, ok := arg.(school.StudentInfo); ok {
			if student == nil {
				student = &si
			}
			continue
		}
		rest = append(rest, arg)
	}
	return rest, student
}

func (l *RollbarLogger) report(level, msg string, args []interface{}) {
	rest, student := splitArgs(args)
	if student != nil {
		rollbar.SetPerson(student.SchoolYear+"/"+student.Name, student.Name, "")
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, append([]interface{}{msg}, rest...)...)

	l.std.Println(msg)
	for _, arg := range rest {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.report(rollbar.DEBUG, msg, args) }
func (l *RollbarLogger) Info(msg string, args ...interface{})  { l.report(rollbar.INFO, msg, args) }
func (l *RollbarLogger) Warn(msg string, args ...interface{})  { l.report(rollbar.WARN, msg, args) }
func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.report(rollbar.ERR, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.Flush()
	l.std.Fatal(msg)
}
