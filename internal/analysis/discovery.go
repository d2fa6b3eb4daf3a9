package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/drey-val/instapilot/internal/selectors"
)

// Instagram renders roughly this many posts per scroll page; the scroll
// budget is derived from it.
const postsPerScrollPage = 12

const scrollSettle = 2 * time.Second

// collectVisiblePostURLsJS gathers the post-permalink anchors currently
// rendered, capped at one scroll page's worth.
var collectVisiblePostURLsJS = fmt.Sprintf(`
	(function() {
		const postLinks = document.querySelectorAll(%q);
		return Array.from(postLinks)
			.map(link => link.href)
			.filter(url => url.includes('/p/'))
			.slice(0, %d);
	})()
`, selectors.PostLinkAnchor, postsPerScrollPage)

// discoverPostURLs scrolls the profile grid collecting post URLs until
// maxPosts are found or the scroll budget runs out. Order of first
// sighting is preserved; duplicates across scroll rounds are dropped.
func (p *Pipeline) discoverPostURLs(ctx context.Context, page context.Context, maxPosts int) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)
	maxScrolls := (maxPosts+postsPerScrollPage-1)/postsPerScrollPage + 2

	for scroll := 0; len(urls) < maxPosts && scroll < maxScrolls; scroll++ {
		var visible []string
		if err := chromedp.Run(page, chromedp.Evaluate(collectVisiblePostURLsJS, &visible)); err != nil {
			return nil, err
		}

		urls = appendUnique(urls, seen, visible, maxPosts)

		if err := chromedp.Run(page,
			chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil),
		); err != nil {
			return nil, err
		}
		if err := p.pace.Sleep(ctx, scrollSettle); err != nil {
			return nil, err
		}
	}

	return urls, nil
}

// appendUnique adds candidates not already seen, preserving first-seen
// order and never exceeding max entries.
func appendUnique(urls []string, seen map[string]bool, candidates []string, max int) []string {
	for _, u := range candidates {
		if len(urls) >= max {
			break
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
