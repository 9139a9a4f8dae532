// Package errtrack reports failures to Sentry. With an empty DSN every call
// is a no-op.
package errtrack

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"
)

type Options struct {
	DSN         string
	Environment string
	Release     string
}

var initSentry = sentry.Init

func Init(opts Options) {
	err := initSentry(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		log.Warn("Sentry init failed, error tracking disabled", "err", err)
		return
	}
	if opts.DSN == "" {
		log.Info("SENTRY_DSN empty, error tracking disabled")
		return
	}
	log.Info("Sentry initialized", "environment", opts.Environment)
}

func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with the given tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func CaptureMessage(msg string, level sentry.Level, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureMessage(msg)
	})
}
