// Package auth handles persistence of Instagram session cookies.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
)

// CookieStore persists browser cookies as a JSON array at a fixed path.
// The file is read before the first navigation and written after a
// successful credential login.
type CookieStore struct {
	path string
}

// NewCookieStore creates a cookie store at the given path.
func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

// Path returns the backing file path.
func (cs *CookieStore) Path() string { return cs.path }

// Exists reports whether a cookie file is present and holds at least
// one cookie.
func (cs *CookieStore) Exists() bool {
	cookies, err := cs.Load()
	return err == nil && len(cookies) > 0
}

// Save persists cookies to disk.
func (cs *CookieStore) Save(cookies []*network.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(cs.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cs.path, data, 0600)
}

// Load retrieves cookies from disk.
func (cs *CookieStore) Load() ([]*network.Cookie, error) {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		return nil, err
	}

	var cookies []*network.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}

	return cookies, nil
}

// IsValid reports whether the stored cookies still carry an unexpired
// Instagram session cookie. Staleness is ultimately decided by where a
// navigation lands, but this lets callers skip a pointless attempt.
func (cs *CookieStore) IsValid() bool {
	cookies, err := cs.Load()
	if err != nil {
		return false
	}

	for _, c := range cookies {
		if c.Name != "sessionid" || c.Value == "" {
			continue
		}
		// Session cookies report no expiry.
		if c.Expires <= 0 {
			return true
		}
		if time.Now().Before(time.Unix(int64(c.Expires), 0)) {
			return true
		}
	}
	return false
}

// Clear removes stored cookies.
func (cs *CookieStore) Clear() error {
	err := os.Remove(cs.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
