package logsvc

import (
	"context"
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

// RollbarLogger reports to Rollbar and mirrors every entry to the std logger.
type RollbarLogger struct {
	std    *log.Logger
	client *rollbar.Client
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	client := rollbar.New(conf.RollbarToken, conf.Env, conf.Build, conf.Server.Host, "")
	client.SetStackTracer(errors.StackTracer)
	client.SetCustom(map[string]interface{}{"app": conf.AppName})
	client.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	return &RollbarLogger{std: std, client: client}
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.client.SetEnabled(enabled && l.client.Token() != "")
}

// Close flushes the pending items.
func (l *RollbarLogger) Close() error {
	return l.client.Close()
}

// entry is one log call split the way Rollbar reports it.
type entry struct {
	ctx    context.Context
	err    error
	extras map[string]interface{}
}

// newEntry reads args as: error (the first one is reported), map[string]interface{} (merged into the extras),
// user.User (the acting user, the first one wins). Anything else is listed under the "args" extra.
func newEntry(args []interface{}) entry {
	e := entry{ctx: context.Background(), extras: make(map[string]interface{})}
	var others []interface{}
	var usrSet bool
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if usrSet {
				continue
			}
			usrSet = true
			e.ctx = rollbar.NewPersonContext(e.ctx, &rollbar.Person{Id: strconv.FormatInt(a.ID, 10), Username: a.Username})
			if a.Role != "" {
				e.extras["role"] = a.Role
			}
		case error:
			if e.err == nil {
				e.err = a
			} else {
				others = append(others, a.Error())
			}
		case map[string]interface{}:
			for k, v := range a {
				e.extras[k] = v
			}
		default:
			others = append(others, a)
		}
	}
	if len(others) > 0 {
		e.extras["args"] = others
	}
	return e
}

func (l *RollbarLogger) log(level, msg string, args []interface{}) {
	e := newEntry(args)
	if e.err != nil {
		e.extras["message"] = msg
		l.client.ErrorWithExtrasAndContext(e.ctx, level, e.err, e.extras)
	} else {
		l.client.MessageWithExtrasAndContext(e.ctx, level, msg, e.extras)
	}

	l.std.Println(msg)
	for _, arg := range args {
		if _, ok := arg.(user.User); ok {
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l *RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l *RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	l.client.Wait()
	l.std.Fatal(msg)
}
