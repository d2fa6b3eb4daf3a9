// Package session owns the browser/page lifecycle and Instagram
// authentication. One Session drives exactly one browser with one page;
// callers must serialize access to it.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/auth"
	"github.com/drey-val/instapilot/internal/browser"
	"github.com/drey-val/instapilot/internal/config"
	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/igerrors"
	"github.com/drey-val/instapilot/internal/selectors"
)

// State tracks where the session is in the authentication flow.
type State string

const (
	StateNoSession         State = "no_session"
	StateCookieCheck       State = "cookie_check"
	StateCookieLogin       State = "cookie_login"
	StateCredentialLogin   State = "credential_login"
	StateAuthenticated     State = "authenticated"
	StateChallengeRequired State = "challenge_required"
	StateOneTapRequired    State = "one_tap_required"
	StateFailed            State = "failed"
)

// Wait bounds. Every wait carries a timeout; there are no unbounded waits.
const (
	navTimeout        = 60 * time.Second
	loginFieldTimeout = 30 * time.Second
	bypassNavTimeout  = 30 * time.Second
	postSubmitSettle  = 3 * time.Second
	loginRedirectPoll = 500 * time.Millisecond
)

// Config carries what a Session needs to authenticate.
type Config struct {
	Username   string
	Password   string
	Headless   bool
	CookiePath string
}

// Session is one authenticated browser/page pairing with Instagram.
type Session struct {
	cfg     Config
	cookies *auth.CookieStore
	log     *logrus.Logger
	pace    delay.Strategy

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browserCtx    context.Context
	state         State
}

// New creates a session. Init must be called before any page use.
func New(cfg Config, log *logrus.Logger, pace delay.Strategy) *Session {
	return &Session{
		cfg:     cfg,
		cookies: auth.NewCookieStore(cfg.CookiePath),
		log:     log,
		pace:    pace,
		state:   StateNoSession,
	}
}

// State returns the current authentication state.
func (s *Session) State() State { return s.state }

// Credentials returns the credential pair this session was built with.
func (s *Session) Credentials() (string, string) {
	return s.cfg.Username, s.cfg.Password
}

// Page returns the browser context for the session's single page. It
// fails unless the session is authenticated.
func (s *Session) Page() (context.Context, error) {
	if s.state != StateAuthenticated || s.browserCtx == nil {
		return nil, fmt.Errorf("session not authenticated (state %s)", s.state)
	}
	return s.browserCtx, nil
}

// Init establishes one browser instance with one page, applies a
// realistic user agent and viewport, and authenticates: stored cookies
// first, credential login as fallback.
func (s *Session) Init(ctx context.Context) error {
	if err := validateCredentials(s.cfg.Username, s.cfg.Password); err != nil {
		s.state = StateFailed
		return err
	}

	s.log.Infof("initializing instagram session for user %s", s.cfg.Username)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, browser.Options(s.cfg.Headless)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s.allocCancel = allocCancel
	s.browserCancel = browserCancel
	s.browserCtx = browserCtx

	// Starts the browser and pins the viewport.
	if err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(browser.ViewportWidth, browser.ViewportHeight),
	); err != nil {
		s.teardown()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	s.state = StateCookieCheck
	if s.cookies.Exists() {
		return s.loginWithCookies(ctx)
	}
	return s.loginWithCredentials(ctx)
}

// Close releases the browser and page. Safe to call when no session
// exists; closing twice is a no-op.
func (s *Session) Close() {
	s.teardown()
	s.state = StateNoSession
}

func (s *Session) teardown() {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.browserCtx = nil
}

func validateCredentials(username, password string) error {
	if username == "" || username == config.PlaceholderUsername {
		return &igerrors.ConfigurationError{Field: "username"}
	}
	if password == "" || password == config.PlaceholderPassword {
		return &igerrors.ConfigurationError{Field: "password"}
	}
	return nil
}

// loginWithCookies applies the persisted cookie set and navigates home.
// Landing back on the login page means the cookies are stale, in which
// case we fall through to credential login. An expired session cookie
// skips the attempt entirely.
func (s *Session) loginWithCookies(ctx context.Context) error {
	s.state = StateCookieLogin

	if !s.cookies.IsValid() {
		s.log.Warn("stored session cookie is expired, falling back to credentials")
		return s.loginWithCredentials(ctx)
	}

	cookies, err := s.cookies.Load()
	if err != nil {
		s.log.Warnf("failed to load cookies: %v, falling back to credentials", err)
		return s.loginWithCredentials(ctx)
	}
	if len(cookies) > 0 {
		if err := s.injectCookies(cookies); err != nil {
			s.state = StateFailed
			return fmt.Errorf("failed to inject cookies: %w", err)
		}
	}

	s.log.Info("loaded cookies, navigating to instagram home page")
	url, err := s.navigate(selectors.BaseURL, navTimeout)
	if err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to load home page: %w", err)
	}

	if cookieLoginValid(url) {
		s.state = StateAuthenticated
		s.log.Info("successfully logged in with cookies")
		return nil
	}

	s.log.Warn("cookies are invalid or expired, falling back to credentials login")
	return s.loginWithCredentials(ctx)
}

// cookieLoginValid reports whether a post-cookie navigation landed
// anywhere but the login page.
func cookieLoginValid(url string) bool {
	return !strings.Contains(url, selectors.LoginPath)
}

// loginOutcome classifies where the browser landed after submitting
// credentials.
type loginOutcome int

const (
	outcomeLoginPage loginOutcome = iota
	outcomeChallenge
	outcomeOneTap
	outcomeAuthenticated
)

func classifyLoginURL(url string) loginOutcome {
	switch {
	case strings.Contains(url, selectors.LoginPath):
		return outcomeLoginPage
	case strings.Contains(url, selectors.ChallengePath):
		return outcomeChallenge
	case strings.Contains(url, selectors.OneTapPath):
		return outcomeOneTap
	default:
		return outcomeAuthenticated
	}
}

func (s *Session) loginWithCredentials(ctx context.Context) error {
	s.state = StateCredentialLogin
	s.log.Infof("logging in with credentials for user %s", s.cfg.Username)

	if _, err := s.navigate(selectors.LoginURL, navTimeout); err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to load login page: %w", err)
	}

	fieldCtx, cancel := context.WithTimeout(s.browserCtx, loginFieldTimeout)
	defer cancel()
	if err := chromedp.Run(fieldCtx,
		chromedp.WaitVisible(selectors.UsernameInput, chromedp.ByQuery),
		chromedp.WaitVisible(selectors.PasswordInput, chromedp.ByQuery),
		chromedp.SendKeys(selectors.UsernameInput, s.cfg.Username, chromedp.ByQuery),
		chromedp.SendKeys(selectors.PasswordInput, s.cfg.Password, chromedp.ByQuery),
		chromedp.Click(selectors.LoginSubmit, chromedp.ByQuery),
	); err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	// Instagram redirects a few times after submit. Wait (bounded) for
	// the page to leave the login URL, then let the chain settle before
	// classifying where it landed. Timing out still on the login page is
	// itself an outcome: the login failed.
	if _, err := awaitRedirect(ctx, navTimeout, loginRedirectPoll, s.currentURL); err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed waiting for post-login navigation: %w", err)
	}
	if err := s.pace.Sleep(ctx, postSubmitSettle); err != nil {
		s.state = StateFailed
		return err
	}

	url, err := s.currentURL()
	if err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to read post-login URL: %w", err)
	}
	s.log.Infof("url after login attempt: %s", url)

	switch classifyLoginURL(url) {
	case outcomeLoginPage:
		s.state = StateFailed
		msg := s.readLoginError()
		return &igerrors.AuthenticationError{Message: msg}

	case outcomeChallenge:
		s.state = StateChallengeRequired
		return &igerrors.VerificationRequiredError{URL: url}

	case outcomeOneTap:
		s.state = StateOneTapRequired
		s.log.Info("instagram requires one-tap verification, attempting bypass")
		s.HandleOneTapVerification(ctx)
		// Whatever the handler managed, make sure we end up home.
		if _, err := s.navigate(selectors.BaseURL, bypassNavTimeout); err != nil {
			s.log.Warnf("direct navigation after one-tap failed: %v", err)
		}
	}

	s.state = StateAuthenticated
	s.log.Infof("login successful for user %s", s.cfg.Username)

	if err := s.persistCookies(); err != nil {
		s.log.Warnf("failed to save cookies: %v", err)
	} else {
		s.log.Info("session cookies saved")
	}

	s.DismissNotificationPopup(ctx)
	return nil
}

// readLoginError pulls the error message Instagram renders on a failed
// login. Best effort; markup drift here only degrades the message.
func (s *Session) readLoginError() string {
	for _, sel := range selectors.LoginErrorSelectors {
		var msg string
		js := fmt.Sprintf(`document.querySelector(%q)?.textContent ?? ""`, sel)
		if err := chromedp.Run(s.browserCtx, chromedp.Evaluate(js, &msg)); err != nil {
			continue
		}
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
	}
	return "unknown error"
}

// navigate goes to a URL with a bounded timeout and returns where the
// page actually landed.
func (s *Session) navigate(url string, timeout time.Duration) (string, error) {
	navCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()

	var landed string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.Location(&landed),
	)
	return landed, err
}

// awaitRedirect polls currentURL until the page leaves the login URL or
// the timeout elapses, returning the last observed URL. A timeout is
// not an error: the caller classifies wherever the page ended up.
func awaitRedirect(ctx context.Context, timeout, poll time.Duration, currentURL func() (string, error)) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		url, err := currentURL()
		if err != nil {
			return "", err
		}
		if classifyLoginURL(url) != outcomeLoginPage {
			return url, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return url, nil
		case <-time.After(poll):
		}
	}
}

func (s *Session) currentURL() (string, error) {
	var url string
	err := chromedp.Run(s.browserCtx, chromedp.Location(&url))
	return url, err
}

// injectCookies sets cookies in the browser before first navigation.
func (s *Session) injectCookies(cookies []*network.Cookie) error {
	return chromedp.Run(s.browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cookies {
				err := network.SetCookie(c.Name, c.Value).
					WithDomain(c.Domain).
					WithPath(c.Path).
					WithSecure(c.Secure).
					WithHTTPOnly(c.HTTPOnly).
					WithSameSite(c.SameSite).
					Do(ctx)
				if err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

// persistCookies writes the browser's current cookie set to the store.
func (s *Session) persistCookies() error {
	var cookies []*network.Cookie
	err := chromedp.Run(s.browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return err
	}
	return s.cookies.Save(cookies)
}
