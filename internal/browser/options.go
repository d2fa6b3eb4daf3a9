// Package browser provides shared chromedp configuration with anti-bot-detection measures.
package browser

import (
	"fmt"

	"github.com/chromedp/chromedp"
)

// DefaultUserAgent is a realistic desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Viewport dimensions, centered on a 1920x1080 screen when headful.
const (
	ViewportWidth  = 1280
	ViewportHeight = 800

	screenWidth  = 1920
	screenHeight = 1080
)

// Options returns chromedp allocator options with anti-bot-detection
// measures. All browser instances should use this so the fingerprint
// stays consistent.
func Options(headless bool) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),

		// Prevent navigator.webdriver = true detection. Instagram
		// checks this before anything else.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.UserAgent(DefaultUserAgent),
		chromedp.WindowSize(ViewportWidth, ViewportHeight),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	if headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	} else {
		left := (screenWidth - ViewportWidth) / 2
		top := (screenHeight - ViewportHeight) / 2
		opts = append(opts, chromedp.Flag("window-position", fmt.Sprintf("%d,%d", left, top)))
	}

	return opts
}
