package analysis

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/selectors"
	"github.com/drey-val/instapilot/internal/types"
)

func TestParseLikeCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1,234 likes", 1234},
		{"423", 423},
		{"liked by someone and 56 others", 56},
		{"", 0},
		{"no digits here", 0},
		{"12,345,678", 12345678},
	}

	for _, tt := range tests {
		if got := parseLikeCount(tt.text); got != tt.want {
			t.Errorf("parseLikeCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestExtractTags(t *testing.T) {
	caption := "sunset ride #moto #casco con @inducascos y @amigo_1 #fin"

	hashtags := extractTags(caption, '#')
	if len(hashtags) != 3 || hashtags[0] != "moto" || hashtags[1] != "casco" || hashtags[2] != "fin" {
		t.Errorf("hashtags = %v", hashtags)
	}

	mentions := extractTags(caption, '@')
	if len(mentions) != 2 || mentions[0] != "inducascos" || mentions[1] != "amigo_1" {
		t.Errorf("mentions = %v", mentions)
	}

	if got := extractTags("no tags at all", '#'); len(got) != 0 {
		t.Errorf("expected no hashtags, got %v", got)
	}
}

func testPipeline() *Pipeline {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewPipeline(nil, nil, delay.Zero{}, log)
}

func TestBuildRecord(t *testing.T) {
	p := testPipeline()

	published := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	raw := rawPost{
		ID:        "DNabc123",
		URL:       "https://www.instagram.com/p/DNabc123/",
		Date:      published.Format(time.RFC3339),
		Type:      "carousel",
		Caption:   "nueva colección #cascos gracias @tienda",
		LikesText: "2,450 likes",
		Comments: []rawComment{
			{Username: "fan1", Text: "me encanta, genial 😍"},
			{Username: "fan2", Text: "ok"}, // under 5 chars, dropped
			{Username: "fan3", Text: "esto es horrible"},
		},
	}

	post := p.buildRecord(raw)

	if post.ContentType != types.ContentCarousel {
		t.Errorf("ContentType = %q, want carousel", post.ContentType)
	}
	if !post.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", post.PublishedAt, published)
	}
	if post.LikeCount != 2450 {
		t.Errorf("LikeCount = %d, want 2450", post.LikeCount)
	}
	if len(post.Comments) != 2 {
		t.Fatalf("got %d comments, want 2 (short one dropped): %+v", len(post.Comments), post.Comments)
	}
	if post.Comments[0].Sentiment != types.SentimentPositive {
		t.Errorf("first comment sentiment = %q, want positive", post.Comments[0].Sentiment)
	}
	if post.Comments[1].Sentiment != types.SentimentNegative {
		t.Errorf("second comment sentiment = %q, want negative", post.Comments[1].Sentiment)
	}
	if post.EngagementScore != post.LikeCount+len(post.Comments) {
		t.Errorf("EngagementScore = %d, want likes+comments = %d",
			post.EngagementScore, post.LikeCount+len(post.Comments))
	}
	if len(post.Hashtags) != 1 || post.Hashtags[0] != "cascos" {
		t.Errorf("Hashtags = %v", post.Hashtags)
	}
	if len(post.Mentions) != 1 || post.Mentions[0] != "tienda" {
		t.Errorf("Mentions = %v", post.Mentions)
	}
}

func TestBuildRecordUnparseableDate(t *testing.T) {
	p := testPipeline()

	before := time.Now()
	post := p.buildRecord(rawPost{ID: "x", Date: "not-a-date", Type: "video"})

	if post.ContentType != types.ContentVideo {
		t.Errorf("ContentType = %q, want video", post.ContentType)
	}
	// Falls back to scrape time so the date filter keeps the post.
	if post.PublishedAt.Before(before) {
		t.Errorf("PublishedAt = %v, want fallback to now", post.PublishedAt)
	}
}

func TestContentTypeFromDefaultsToImage(t *testing.T) {
	if got := contentTypeFrom("something-new"); got != types.ContentImage {
		t.Errorf("contentTypeFrom fallback = %q, want image", got)
	}
}

func TestBuildRecordCommentFilterCountsCharacters(t *testing.T) {
	p := testPipeline()

	post := p.buildRecord(rawPost{
		ID:   "x",
		Date: time.Now().Format(time.RFC3339),
		Comments: []rawComment{
			{Username: "a", Text: "😍😍"},     // 2 characters, 8 bytes: dropped
			{Username: "b", Text: "olé!!"},  // 5 characters, 6 bytes: kept
			{Username: "c", Text: "genial"}, // kept
		},
	})

	if len(post.Comments) != 2 {
		t.Fatalf("got %d comments, want 2: %+v", len(post.Comments), post.Comments)
	}
	if post.Comments[0].AuthorHandle != "b" || post.Comments[1].AuthorHandle != "c" {
		t.Errorf("kept the wrong comments: %+v", post.Comments)
	}
}

// The extraction script must be assembled from the centralized
// selectors so markup drift is fixed in one place. Selectors are
// embedded as quoted JS strings, so the check compares quoted forms.
func TestExtractScriptUsesCentralizedSelectors(t *testing.T) {
	js := extractScript(5, true)

	for _, want := range []string{
		selectors.CommentBlock,
		selectors.MediaImage,
		selectors.TimeElement,
		selectors.LikeCountSelectors[0],
		selectors.PostCaptionSelectors[0],
		selectors.CarouselMarkers[0],
	} {
		if !strings.Contains(js, fmt.Sprintf("%q", want)) {
			t.Errorf("extraction script is missing selector %q", want)
		}
	}
}
