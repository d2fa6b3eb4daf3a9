// Package analysis implements the profile analysis pipeline: post URL
// discovery, per-post extraction with sentiment tagging, date filtering
// and summary aggregation.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/analysis/sentiment"
	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/igerrors"
	"github.com/drey-val/instapilot/internal/selectors"
	"github.com/drey-val/instapilot/internal/session"
	"github.com/drey-val/instapilot/internal/types"
)

const navTimeout = 60 * time.Second

// Options tune a single analysis run. Zero values take the defaults
// noted per field.
type Options struct {
	DaysBack           int           // 30; >= 365 disables the date filter
	MaxPosts           int           // 50
	MaxCommentsPerPost int           // 10
	IncludeMediaURLs   bool          // false
	RateLimit          time.Duration // 3s between posts
}

func (o Options) withDefaults() Options {
	if o.DaysBack == 0 {
		o.DaysBack = 30
	}
	if o.MaxPosts == 0 {
		o.MaxPosts = 50
	}
	if o.MaxCommentsPerPost == 0 {
		o.MaxCommentsPerPost = 10
	}
	if o.RateLimit == 0 {
		o.RateLimit = 3 * time.Second
	}
	return o
}

// Pipeline runs profile analyses over an authenticated session. Posts
// are processed sequentially on purpose: request pacing should look
// human, and the single page must never be driven concurrently.
type Pipeline struct {
	sess       *session.Session
	classifier sentiment.Classifier
	pace       delay.Strategy
	log        *logrus.Logger
}

// NewPipeline builds an analysis pipeline. A nil classifier gets the
// default keyword classifier.
func NewPipeline(sess *session.Session, classifier sentiment.Classifier, pace delay.Strategy, log *logrus.Logger) *Pipeline {
	if classifier == nil {
		classifier = sentiment.KeywordClassifier{}
	}
	return &Pipeline{
		sess:       sess,
		classifier: classifier,
		pace:       pace,
		log:        log,
	}
}

// Analyze scrapes a profile's recent posts into a structured report.
// Per-post extraction failures are logged and skipped; any other
// failure aborts the run wrapped in an AnalysisError.
func (p *Pipeline) Analyze(ctx context.Context, handle string, opts Options) (*types.AnalysisReport, error) {
	report, err := p.analyze(ctx, handle, opts.withDefaults())
	if err != nil {
		return nil, &igerrors.AnalysisError{Handle: handle, Err: err}
	}
	return report, nil
}

func (p *Pipeline) analyze(ctx context.Context, handle string, opts Options) (*types.AnalysisReport, error) {
	page, err := p.sess.Page()
	if err != nil {
		return nil, err
	}

	p.log.Infof("starting instagram analysis for @%s", handle)

	navCtx, cancel := context.WithTimeout(page, navTimeout)
	err = chromedp.Run(navCtx, chromedp.Navigate(selectors.ProfileURL(handle)))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to open profile @%s: %w", handle, err)
	}
	if err := p.pace.Sleep(ctx, postPageSettle); err != nil {
		return nil, err
	}

	private, err := p.isPrivateProfile(page)
	if err != nil {
		return nil, err
	}
	if private {
		return nil, &igerrors.PrivateProfileError{Handle: handle}
	}

	urls, err := p.discoverPostURLs(ctx, page, opts.MaxPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover post urls: %w", err)
	}
	p.log.Infof("found %d posts to analyze", len(urls))

	posts := make([]types.PostRecord, 0, len(urls))
	for i, url := range urls {
		p.log.Infof("processing post %d/%d: %s", i+1, len(urls), url)

		post, err := p.extractPost(ctx, page, url, opts)
		if err != nil {
			// Partial results beat total failure here.
			p.log.Errorf("error processing post %s, skipping: %v", url, err)
			continue
		}
		posts = append(posts, *post)

		if i < len(urls)-1 {
			if err := p.pace.Sleep(ctx, opts.RateLimit); err != nil {
				return nil, err
			}
		}
	}

	if opts.DaysBack < 365 {
		posts = filterByDate(posts, opts.DaysBack, time.Now())
	}

	report := &types.AnalysisReport{
		ID:                uuid.NewString(),
		SubjectHandle:     handle,
		GeneratedAt:       time.Now(),
		PeriodDescription: fmt.Sprintf("%d days", opts.DaysBack),
		TotalPosts:        len(posts),
		Posts:             posts,
		Summary:           summarize(posts),
	}

	p.log.Infof("analysis completed for @%s, posts analyzed: %d", handle, len(posts))
	return report, nil
}

// isPrivateProfile detects the "this account is private" marker.
func (p *Pipeline) isPrivateProfile(page context.Context) (bool, error) {
	js := fmt.Sprintf(`
		(function() {
			const heading = document.querySelector(%q);
			return heading?.textContent?.includes(%q) || false;
		})()
	`, selectors.PrivateProfileHeading, selectors.PrivateProfileMarker)

	var private bool
	if err := chromedp.Run(page, chromedp.Evaluate(js, &private)); err != nil {
		return false, fmt.Errorf("failed to check profile visibility: %w", err)
	}
	return private, nil
}
