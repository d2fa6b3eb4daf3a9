package dm

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

func TestSendRequiresAuthenticatedSession(t *testing.T) {
	sess := session.New(session.Config{
		Username:   "someone",
		Password:   "hunter2",
		CookiePath: t.TempDir() + "/cookies.json",
	}, quietLogger(), delay.Zero{})

	sender := NewSender(sess, delay.Zero{}, quietLogger())
	if err := sender.SendDirectMessage(context.Background(), "friend", "hello"); err == nil {
		t.Fatal("SendDirectMessage on an uninitialized session did not fail")
	}
}
