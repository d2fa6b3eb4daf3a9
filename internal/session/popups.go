package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/drey-val/instapilot/internal/selectors"
)

const (
	popupWaitTimeout = 5 * time.Second
	popupCloseSettle = 1500 * time.Millisecond
	oneTapPageSettle = 3 * time.Second
)

// dialogDismissJS searches the first open dialog for an interactive
// element whose trimmed text equals the dismissal phrase and clicks it
// at script level, which is more reliable than a pointer click on
// overlay-covered elements. Evaluates to true when a click happened.
var dialogDismissJS = fmt.Sprintf(`
	(function() {
		const dialog = document.querySelector(%q);
		if (!dialog) return false;
		const candidates = dialog.querySelectorAll(%q);
		for (const el of candidates) {
			if ((el.textContent || '').trim().toLowerCase() === %q) {
				el.click();
				return true;
			}
		}
		return false;
	})()
`, selectors.Dialog, selectors.ClickableQuery, selectors.NotNowText)

// DismissNotificationPopup waits briefly for a modal dialog and clicks
// its "Not Now" control if present. No dialog within the timeout is
// success: nothing to dismiss. Failures are downgraded to warnings
// because the caller has its own downstream fallback.
func (s *Session) DismissNotificationPopup(ctx context.Context) {
	s.log.Info("checking for notification popup")

	waitCtx, cancel := context.WithTimeout(s.browserCtx, popupWaitTimeout)
	defer cancel()
	if err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(selectors.Dialog, chromedp.ByQuery),
	); err != nil {
		s.log.Info("no notification popup appeared within the timeout period")
		return
	}

	var clicked bool
	if err := chromedp.Run(s.browserCtx, chromedp.Evaluate(dialogDismissJS, &clicked)); err != nil {
		s.log.Warnf("failed to dismiss notification popup: %v", err)
		return
	}
	if !clicked {
		s.log.Info("dismissal control not found within the dialog")
		return
	}

	// Give the dialog time to close before the caller touches the page.
	if err := s.pace.Sleep(ctx, popupCloseSettle); err != nil {
		return
	}
	s.log.Info("notification popup dismissed")
}

// oneTapTextScanJS scans all buttons and clickable divs for a
// confirmation keyword (case-insensitive) and clicks the first match.
var oneTapTextScanJS = fmt.Sprintf(`
	(function() {
		const keywords = %s;
		const candidates = document.querySelectorAll(%q);
		for (const el of candidates) {
			const text = (el.textContent || '').toLowerCase();
			if (keywords.some(kw => text.includes(kw))) {
				el.click();
				return text.trim();
			}
		}
		return "";
	})()
`, selectors.JSArray(selectors.OneTapKeywords), selectors.ClickableQuery)

// HandleOneTapVerification attempts to clear Instagram's post-login
// one-tap confirmation: known confirmation selectors first, then a text
// scan of all clickable elements, then direct navigation home as a last
// resort. Each click is preceded by a small randomized delay to emulate
// human pacing. Failure of all three degrades to a warning; the session
// manager has its own fallback.
func (s *Session) HandleOneTapVerification(ctx context.Context) {
	s.log.Info("handling one-tap verification automatically")

	if err := s.pace.Sleep(ctx, oneTapPageSettle); err != nil {
		return
	}

	// Strategy 1: known confirmation button selectors.
	for _, sel := range selectors.OneTapButtonSelectors {
		var present bool
		js := fmt.Sprintf(`document.querySelector(%q) !== null`, sel)
		if err := chromedp.Run(s.browserCtx, chromedp.Evaluate(js, &present)); err != nil || !present {
			continue
		}

		s.log.Infof("found confirmation button: %s", sel)
		if err := s.pace.SleepBetween(ctx, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
			return
		}
		if err := chromedp.Run(s.browserCtx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
			s.log.Warnf("failed to click %s: %v", sel, err)
			continue
		}
		_ = s.pace.Sleep(ctx, oneTapPageSettle)
		return
	}

	// Strategy 2: scan clickable elements for confirmation keywords.
	if err := s.pace.SleepBetween(ctx, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
		return
	}
	var clickedText string
	if err := chromedp.Run(s.browserCtx, chromedp.Evaluate(oneTapTextScanJS, &clickedText)); err != nil {
		s.log.Warnf("one-tap text scan failed: %v", err)
	} else if clickedText != "" {
		s.log.Infof("clicked confirmation button with text: %s", clickedText)
		_ = s.pace.Sleep(ctx, oneTapPageSettle)
		return
	}

	// Strategy 3: go straight to the home page.
	s.log.Info("attempting to navigate directly to home page")
	if _, err := s.navigate(selectors.BaseURL, bypassNavTimeout); err != nil {
		s.log.Warnf("one-tap fallback navigation failed: %v", err)
		return
	}
	s.log.Info("one-tap verification handling completed")
}
