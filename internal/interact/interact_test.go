package interact

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/session"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewLoopDefaults(t *testing.T) {
	loop := NewLoop(nil, nil, delay.Zero{}, quietLogger())
	if loop.MaxPosts != DefaultMaxPosts {
		t.Errorf("MaxPosts = %d, want %d", loop.MaxPosts, DefaultMaxPosts)
	}
	if loop.Policy != AbortOnError {
		t.Errorf("Policy = %v, want AbortOnError", loop.Policy)
	}
}

func TestRunRequiresAuthenticatedSession(t *testing.T) {
	sess := session.New(session.Config{
		Username:   "someone",
		Password:   "hunter2",
		CookiePath: t.TempDir() + "/cookies.json",
	}, quietLogger(), delay.Zero{})

	loop := NewLoop(sess, nil, delay.Zero{}, quietLogger())
	if err := loop.Run(context.Background()); err == nil {
		t.Fatal("Run on an uninitialized session did not fail")
	}
}
