package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/drey-val/instapilot/internal/selectors"
)

// The followers modal leads with a handful of navigation links that are
// not followers; they are sliced off the result.
const leadingNonFollowerLinks = 4

const followerScrollSettle = time.Second

// collectFollowerHandlesJS reads the profile links currently rendered
// inside the followers modal.
var collectFollowerHandlesJS = fmt.Sprintf(`
	(function() {
		const followerElements = document.querySelectorAll(%q);
		return Array.from(followerElements)
			.map(el => el.getAttribute('href'))
			.filter(href => href !== null && href.startsWith('/'))
			.map(href => href.substring(1));
	})()
`, selectors.FollowerLink)

// ScrapeFollowers collects follower handles from a profile's followers
// modal, scrolling until maxFollowers are found or the list bottoms out.
func (p *Pipeline) ScrapeFollowers(ctx context.Context, handle string, maxFollowers int) ([]string, error) {
	page, err := p.sess.Page()
	if err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithTimeout(page, navTimeout)
	err = chromedp.Run(navCtx, chromedp.Navigate(selectors.FollowersURL(handle)))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to open followers of @%s: %w", handle, err)
	}
	p.log.Infof("navigated to @%s's followers page", handle)

	waitCtx, cancel := context.WithTimeout(page, 10*time.Second)
	err = chromedp.Run(waitCtx, chromedp.WaitVisible(selectors.Dialog, chromedp.ByQuery))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("followers modal did not load: %w", err)
	}

	target := maxFollowers + leadingNonFollowerLinks
	var handles []string
	seen := make(map[string]bool)
	previousHeight := -1

	for len(handles) < target {
		var visible []string
		if err := chromedp.Run(page, chromedp.Evaluate(collectFollowerHandlesJS, &visible)); err != nil {
			return nil, fmt.Errorf("failed to collect follower handles: %w", err)
		}
		handles = appendUnique(handles, seen, visible, target)

		// Scroll the modal, not the page behind it.
		scrollJS := fmt.Sprintf(`
			(function() {
				const dialog = document.querySelector(%q);
				if (dialog) dialog.scrollTop = dialog.scrollHeight;
				return dialog ? dialog.scrollHeight : 0;
			})()
		`, selectors.Dialog)

		var height int
		if err := chromedp.Run(page, chromedp.Evaluate(scrollJS, &height)); err != nil {
			return nil, fmt.Errorf("failed to scroll followers modal: %w", err)
		}
		if err := p.pace.Sleep(ctx, followerScrollSettle); err != nil {
			return nil, err
		}

		if height == previousHeight {
			p.log.Info("reached the end of the followers list")
			break
		}
		previousHeight = height
	}

	followers := followerHandles(handles)
	p.log.Infof("scraped %d followers of @%s", len(followers), handle)
	return followers, nil
}

// followerHandles drops the modal's leading navigation links from the
// collected anchors. A collection no larger than the lead yields no
// followers.
func followerHandles(collected []string) []string {
	if len(collected) <= leadingNonFollowerLinks {
		return nil
	}
	return collected[leadingNonFollowerLinks:]
}
