package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/auth"
	"github.com/drey-val/instapilot/internal/config"
	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/igerrors"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "someone", "hunter2", false},
		{"empty username", "", "hunter2", true},
		{"empty password", "someone", "", true},
		{"placeholder username", config.PlaceholderUsername, "hunter2", true},
		{"placeholder password", "someone", config.PlaceholderPassword, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCredentials(tt.username, tt.password)
			if tt.wantErr {
				var cfgErr *igerrors.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("want ConfigurationError, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestClassifyLoginURL(t *testing.T) {
	tests := []struct {
		url  string
		want loginOutcome
	}{
		{"https://www.instagram.com/accounts/login/", outcomeLoginPage},
		{"https://www.instagram.com/accounts/login/?next=%2F", outcomeLoginPage},
		{"https://www.instagram.com/challenge/action/xyz/", outcomeChallenge},
		{"https://www.instagram.com/accounts/onetap/?next=%2F", outcomeOneTap},
		{"https://www.instagram.com/", outcomeAuthenticated},
		{"https://www.instagram.com/some_user/", outcomeAuthenticated},
	}

	for _, tt := range tests {
		if got := classifyLoginURL(tt.url); got != tt.want {
			t.Errorf("classifyLoginURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestCookieLoginValid(t *testing.T) {
	if cookieLoginValid("https://www.instagram.com/accounts/login/") {
		t.Error("login page URL should mean stale cookies")
	}
	if !cookieLoginValid("https://www.instagram.com/") {
		t.Error("home page URL should mean valid cookies")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New(Config{
		Username:   "someone",
		Password:   "hunter2",
		CookiePath: filepath.Join(t.TempDir(), "cookies.json"),
	}, quietLogger(), delay.Zero{})

	// Never initialized: closing must be a no-op, twice.
	s.Close()
	if s.State() != StateNoSession {
		t.Errorf("state after Close = %q, want %q", s.State(), StateNoSession)
	}
	s.Close()
	if s.State() != StateNoSession {
		t.Errorf("state after second Close = %q, want %q", s.State(), StateNoSession)
	}
}

func TestPageRequiresAuthentication(t *testing.T) {
	s := New(Config{Username: "someone", Password: "hunter2"}, quietLogger(), delay.Zero{})
	if _, err := s.Page(); err == nil {
		t.Error("Page() on an unauthenticated session should fail")
	}
}

// A cookie set saved after login and loaded in a fresh store must be
// seen as reusable, so the next Init takes the cookie path instead of
// re-submitting credentials.
func TestCookieRoundTripEnablesCookieLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instagram.json")

	saved := auth.NewCookieStore(path)
	err := saved.Save([]*network.Cookie{
		{Name: "sessionid", Value: "abc123", Domain: ".instagram.com", Path: "/"},
		{Name: "csrftoken", Value: "tok", Domain: ".instagram.com", Path: "/"},
	})
	if err != nil {
		t.Fatalf("failed to save cookies: %v", err)
	}

	fresh := auth.NewCookieStore(path)
	if !fresh.Exists() {
		t.Fatal("fresh store should see the persisted cookie set")
	}
	cookies, err := fresh.Load()
	if err != nil {
		t.Fatalf("failed to load cookies: %v", err)
	}
	if len(cookies) != 2 || cookies[0].Name != "sessionid" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}

	// A navigation with these cookies that lands off the login page
	// completes authentication without credentials.
	if !cookieLoginValid("https://www.instagram.com/") {
		t.Error("non-login landing URL should authenticate the cookie session")
	}
}

func TestAwaitRedirectReturnsOnceOffLoginPage(t *testing.T) {
	urls := []string{
		"https://www.instagram.com/accounts/login/",
		"https://www.instagram.com/accounts/login/",
		"https://www.instagram.com/",
	}
	calls := 0
	currentURL := func() (string, error) {
		url := urls[calls]
		if calls < len(urls)-1 {
			calls++
		}
		return url, nil
	}

	url, err := awaitRedirect(context.Background(), time.Second, time.Millisecond, currentURL)
	if err != nil {
		t.Fatalf("awaitRedirect: %v", err)
	}
	if url != "https://www.instagram.com/" {
		t.Errorf("url = %q, want the post-redirect home URL", url)
	}
}

func TestAwaitRedirectTimesOutOnLoginPage(t *testing.T) {
	currentURL := func() (string, error) {
		return "https://www.instagram.com/accounts/login/", nil
	}

	url, err := awaitRedirect(context.Background(), 20*time.Millisecond, time.Millisecond, currentURL)
	if err != nil {
		t.Fatalf("awaitRedirect: %v", err)
	}
	// Timing out still on the login page is an outcome, not an error:
	// the caller classifies it as a failed login.
	if classifyLoginURL(url) != outcomeLoginPage {
		t.Errorf("url after timeout = %q, want the login page", url)
	}
}

func TestAwaitRedirectHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	currentURL := func() (string, error) {
		return "https://www.instagram.com/accounts/login/", nil
	}

	if _, err := awaitRedirect(ctx, time.Second, time.Millisecond, currentURL); err != context.Canceled {
		t.Errorf("awaitRedirect = %v, want context.Canceled", err)
	}
}

// An expired session cookie must route Init down the credential path
// instead of attempting cookie injection.
func TestExpiredCookiesFailPrecheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instagram.json")

	store := auth.NewCookieStore(path)
	err := store.Save([]*network.Cookie{
		{Name: "sessionid", Value: "abc123", Domain: ".instagram.com", Path: "/",
			Expires: float64(time.Now().Add(-time.Hour).Unix())},
	})
	if err != nil {
		t.Fatalf("failed to save cookies: %v", err)
	}

	if !store.Exists() {
		t.Fatal("cookie file should exist")
	}
	if store.IsValid() {
		t.Error("expired session cookie passed the validity precheck")
	}
}
