package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/delay"
)

// Pool caches one live session per credential pair. A new pair
// invalidates and replaces the cached session; the same pair reuses it.
// This replaces a bare global with explicit invalidation rules while
// preserving the single-page-per-process invariant.
type Pool struct {
	mu       sync.Mutex
	current  *Session
	headless bool
	cookies  string
	log      *logrus.Logger
	pace     delay.Strategy
}

// NewPool creates an empty pool. Sessions it creates share the given
// browser mode, cookie path, logger and pacing strategy.
func NewPool(headless bool, cookiePath string, log *logrus.Logger, pace delay.Strategy) *Pool {
	return &Pool{
		headless: headless,
		cookies:  cookiePath,
		log:      log,
		pace:     pace,
	}
}

// Get returns an authenticated session for the credential pair,
// creating or replacing the cached one as needed.
func (p *Pool) Get(ctx context.Context, username, password string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		u, pw := p.current.Credentials()
		if u == username && pw == password && p.current.State() == StateAuthenticated {
			return p.current, nil
		}
		p.current.Close()
		p.current = nil
	}

	s := New(Config{
		Username:   username,
		Password:   password,
		Headless:   p.headless,
		CookiePath: p.cookies,
	}, p.log, p.pace)

	if err := s.Init(ctx); err != nil {
		s.Close()
		return nil, err
	}

	p.current = s
	return s, nil
}

// Close tears down the cached session, if any.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
}
