package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"

	"github.com/drey-val/instapilot/internal/selectors"
	"github.com/drey-val/instapilot/internal/types"
)

// rawPost is the data a single extraction pass pulls out of a post
// permalink page before any Go-side parsing.
type rawPost struct {
	ID        string       `json:"id"`
	URL       string       `json:"url"`
	Date      string       `json:"date"`
	Type      string       `json:"type"`
	Caption   string       `json:"caption"`
	LikesText string       `json:"likesText"`
	Comments  []rawComment `json:"comments"`
	MediaURLs []string     `json:"mediaUrls"`
}

type rawComment struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// extractScript builds the one-pass extraction snippet for a post
// permalink page from the centralized selectors. Content type is
// decided video > carousel markers > image. The like count and caption
// come from the first matching candidate selector; parsing happens on
// the Go side.
func extractScript(maxComments int, includeMediaURLs bool) string {
	return fmt.Sprintf(`
	(function(maxComments, includeMediaUrls) {
		const postId = window.location.pathname.split('/p/')[1]?.split('/')[0] || '';

		const timeElement = document.querySelector(%q);
		const date = timeElement?.getAttribute('datetime') || '';

		let type = 'image';
		if (document.querySelector('video')) {
			type = 'video';
		} else if (%s.some(sel => document.querySelector(sel))) {
			type = 'carousel';
		}

		let likesText = '';
		for (const selector of %s) {
			const element = document.querySelector(selector);
			if (element && element.textContent) {
				likesText = element.textContent;
				break;
			}
		}

		let caption = '';
		for (const selector of %s) {
			const element = document.querySelector(selector);
			if (element && element.textContent) {
				caption = element.textContent;
				break;
			}
		}

		const comments = [];
		const commentElements = document.querySelectorAll(%q);
		for (let i = 0; i < Math.min(commentElements.length, maxComments); i++) {
			const el = commentElements[i];
			const usernameEl = el.querySelector('a');
			const textEl = el.querySelector('span');
			if (usernameEl && textEl) {
				comments.push({
					username: usernameEl.textContent || '',
					text: textEl.textContent || ''
				});
			}
		}

		let mediaUrls = [];
		if (includeMediaUrls) {
			const imgElements = document.querySelectorAll(%q);
			mediaUrls = Array.from(imgElements).map(img => img.src);
		}

		return {
			id: postId,
			url: window.location.href,
			date,
			type,
			caption,
			likesText,
			comments,
			mediaUrls
		};
	})(%d, %t)
`,
		selectors.TimeElement,
		selectors.JSArray(selectors.CarouselMarkers),
		selectors.JSArray(selectors.LikeCountSelectors),
		selectors.JSArray(selectors.PostCaptionSelectors),
		selectors.CommentBlock,
		selectors.MediaImage,
		maxComments, includeMediaURLs)
}

const postPageSettle = 2 * time.Second

// extractPost navigates to a post URL and runs the extraction pass.
func (p *Pipeline) extractPost(ctx context.Context, page context.Context, postURL string, opts Options) (*types.PostRecord, error) {
	navCtx, cancel := context.WithTimeout(page, navTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(postURL))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to open post %s: %w", postURL, err)
	}
	if err := p.pace.Sleep(ctx, postPageSettle); err != nil {
		return nil, err
	}

	var raw rawPost
	js := extractScript(opts.MaxCommentsPerPost, opts.IncludeMediaURLs)
	if err := chromedp.Run(page, chromedp.Evaluate(js, &raw)); err != nil {
		return nil, fmt.Errorf("failed to extract post data from %s: %w", postURL, err)
	}

	post := p.buildRecord(raw)
	return &post, nil
}

// minCommentLength filters out comments too short to carry signal,
// counted in characters, not bytes.
const minCommentLength = 5

// buildRecord converts a raw extraction into a PostRecord: parses the
// like count and date, derives hashtags and mentions, filters and
// classifies comments, then recomputes the engagement score.
func (p *Pipeline) buildRecord(raw rawPost) types.PostRecord {
	published := time.Now()
	if raw.Date != "" {
		if parsed, err := time.Parse(time.RFC3339, raw.Date); err == nil {
			published = parsed
		}
	}

	comments := make([]types.CommentRecord, 0, len(raw.Comments))
	for _, rc := range raw.Comments {
		if utf8.RuneCountInString(rc.Text) < minCommentLength {
			continue
		}
		comments = append(comments, types.CommentRecord{
			AuthorHandle: rc.Username,
			Text:         rc.Text,
			Sentiment:    p.classifier.Classify(rc.Text),
		})
	}

	post := types.PostRecord{
		ID:          raw.ID,
		URL:         raw.URL,
		PublishedAt: published,
		ContentType: contentTypeFrom(raw.Type),
		Caption:     raw.Caption,
		LikeCount:   parseLikeCount(raw.LikesText),
		Comments:    comments,
		Hashtags:    extractTags(raw.Caption, '#'),
		Mentions:    extractTags(raw.Caption, '@'),
		MediaURLs:   raw.MediaURLs,
	}
	post.RecomputeEngagement()
	return post
}

func contentTypeFrom(s string) types.ContentType {
	switch s {
	case "video":
		return types.ContentVideo
	case "carousel":
		return types.ContentCarousel
	default:
		return types.ContentImage
	}
}

var likeCountRe = regexp.MustCompile(`(\d+(?:,\d+)*)`)

// parseLikeCount reads the leading run of digits and commas out of a
// like-count blob like "1,234 likes".
func parseLikeCount(text string) int {
	match := likeCountRe.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

var (
	hashtagRe = regexp.MustCompile(`#\w+`)
	mentionRe = regexp.MustCompile(`@\w+`)
)

// extractTags pulls #hashtags or @mentions out of a caption, without
// the marker character.
func extractTags(caption string, marker byte) []string {
	re := hashtagRe
	if marker == '@' {
		re = mentionRe
	}

	matches := re.FindAllString(caption, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1:])
	}
	return tags
}
