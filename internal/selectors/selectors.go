// Package selectors centralizes every CSS selector and exact-text match
// used against Instagram's markup. Instagram changes its DOM frequently;
// when scraping breaks, update here and nowhere else.
package selectors

import (
	"fmt"
	"strings"
)

// URLs.
const (
	BaseURL  = "https://www.instagram.com/"
	LoginURL = "https://www.instagram.com/accounts/login/"
)

// URL path fragments used to classify where a navigation landed.
const (
	LoginPath     = "/accounts/login/"
	ChallengePath = "/challenge/"
	OneTapPath    = "/accounts/onetap/"
)

// ProfileURL returns the canonical URL for a user's profile.
func ProfileURL(handle string) string {
	return BaseURL + handle + "/"
}

// FollowersURL returns the URL of a user's followers modal.
func FollowersURL(handle string) string {
	return BaseURL + handle + "/followers/"
}

// Login form.
const (
	UsernameInput = `input[name="username"]`
	PasswordInput = `input[name="password"]`
	LoginSubmit   = `button[type="submit"]`
)

// Login error message candidates, tried in order.
var LoginErrorSelectors = []string{
	`[data-testid="login-error-message"]`,
	`[role="alert"]`,
}

// Dialogs and popups.
const (
	Dialog = `div[role="dialog"]`

	// Exact trimmed text (lowercased) of the dismissal control inside a
	// notification dialog.
	NotNowText = "not now"
)

// Buttons considered interactive when scanning by text.
var ClickableSelectors = []string{"button", `div[role="button"]`}

// ClickableQuery is ClickableSelectors joined for querySelectorAll.
var ClickableQuery = strings.Join(ClickableSelectors, ", ")

// JSArray renders selectors as a JavaScript array literal for use
// inside Evaluate snippets.
func JSArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// One-tap confirmation button candidates, tried in order.
var OneTapButtonSelectors = []string{
	`button[type="submit"]`,
}

// OneTapKeywords are matched case-insensitively against button text
// during the one-tap text scan.
var OneTapKeywords = []string{
	"continue", "next", "confirm", "verify", "allow", "yes", "ok", "proceed",
}

// Feed posts, addressed by ordinal position.
func PostByIndex(i int) string {
	return fmt.Sprintf("article:nth-of-type(%d)", i)
}

// Like-state aria-labels and the query matching either.
const (
	LikeLabel   = "Like"
	UnlikeLabel = "Unlike"

	LikeStateControls = `svg[aria-label="Like"], svg[aria-label="Unlike"]`
)

// LikeControl returns the selector for the like button of the i-th feed
// post. The aria-label distinguishes "Like" from "Unlike".
func LikeControl(i int) string {
	return PostByIndex(i) + ` svg[aria-label="Like"]`
}

// Caption of the i-th feed post, and its truncation expander.
func Caption(i int) string {
	return PostByIndex(i) + ` div.x9f619 span._ap3a div span._ap3a`
}

func CaptionMoreLink(i int) string {
	return PostByIndex(i) + ` div.x9f619 span._ap3a span div span.x1lliihq`
}

// CommentBox of the i-th feed post.
func CommentBox(i int) string {
	return PostByIndex(i) + ` textarea`
}

// Exact text of the comment submit control.
const PostButtonText = "Post"

// Direct messages.
const (
	MessageButtonText = "Message"
	SendButtonText    = "Send"
	FileInput         = `input[type="file"]`
	DirectThreadLink  = `a[href*="/direct/t/"]`
)

// Message input candidates, first match wins.
var MessageInputSelectors = []string{
	`textarea[placeholder="Message..."]`,
	`div[role="textbox"]`,
	`div[contenteditable="true"]`,
	`textarea[aria-label="Message"]`,
}

// Profile and post scraping.
const (
	PrivateProfileHeading = "h2"
	PrivateProfileMarker  = "This Account is Private"

	PostLinkAnchor = `a[href*="/p/"]`
	FollowerLink   = `div a[role="link"]`
	TimeElement    = "time"
	MediaImage     = `img[src*="instagram"]`
)

// Like-count candidates on a post permalink page, tried in order.
var LikeCountSelectors = []string{
	`section button span[title]`,
	`a[href*="/liked_by/"] span`,
	`[data-testid="like-count"]`,
	`section span span`,
	`div[role="button"] span`,
}

// Caption candidates on a post permalink page, tried in order.
var PostCaptionSelectors = []string{
	`div.x9f619 span._ap3a div span._ap3a`,
	`div[data-testid="post-caption"] span`,
	`article div span span`,
	`div[role="button"] span`,
}

// Comment blocks on a post permalink page.
const CommentBlock = `div[data-testid="comment"]`

// Carousel markers used for content-type detection.
var CarouselMarkers = []string{
	`[aria-label*="carousel"]`,
	`button[aria-label*="Next"]`,
	`[data-testid="carousel"]`,
}
