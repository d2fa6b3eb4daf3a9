package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
)

func tempStore(t *testing.T) *CookieStore {
	t.Helper()
	return NewCookieStore(filepath.Join(t.TempDir(), "cookies", "instagram.json"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cs := tempStore(t)

	in := []*network.Cookie{
		{Name: "sessionid", Value: "abc", Domain: ".instagram.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "ds_user_id", Value: "42", Domain: ".instagram.com", Path: "/"},
	}
	if err := cs.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := cs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d cookies, want 2", len(out))
	}
	if out[0].Name != "sessionid" || out[0].Value != "abc" || !out[0].Secure {
		t.Errorf("first cookie mismatch: %+v", out[0])
	}
}

func TestExists(t *testing.T) {
	cs := tempStore(t)

	if cs.Exists() {
		t.Error("Exists should be false before any save")
	}

	if err := cs.Save([]*network.Cookie{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cs.Exists() {
		t.Error("an empty cookie set should not count as existing")
	}

	if err := cs.Save([]*network.Cookie{{Name: "sessionid", Value: "x"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !cs.Exists() {
		t.Error("Exists should be true after saving a cookie")
	}
}

func TestIsValid(t *testing.T) {
	cs := tempStore(t)

	if cs.IsValid() {
		t.Error("no file should not be valid")
	}

	future := float64(time.Now().Add(24 * time.Hour).Unix())
	past := float64(time.Now().Add(-24 * time.Hour).Unix())

	if err := cs.Save([]*network.Cookie{{Name: "sessionid", Value: "x", Expires: future}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !cs.IsValid() {
		t.Error("unexpired session cookie should be valid")
	}

	if err := cs.Save([]*network.Cookie{{Name: "sessionid", Value: "x", Expires: past}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cs.IsValid() {
		t.Error("expired session cookie should not be valid")
	}

	if err := cs.Save([]*network.Cookie{{Name: "csrftoken", Value: "x", Expires: future}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cs.IsValid() {
		t.Error("cookie set without sessionid should not be valid")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	cs := tempStore(t)

	if err := cs.Clear(); err != nil {
		t.Errorf("clearing a missing file should be a no-op, got %v", err)
	}

	if err := cs.Save([]*network.Cookie{{Name: "sessionid", Value: "x"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := cs.Clear(); err != nil {
		t.Errorf("Clear: %v", err)
	}
	if cs.Exists() {
		t.Error("cookies should be gone after Clear")
	}
	if err := cs.Clear(); err != nil {
		t.Errorf("second Clear should be a no-op, got %v", err)
	}
}
