// Package app wires the session pool, interaction loop, message sender
// and analysis pipeline into the operations the CLI exposes.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/analysis"
	"github.com/drey-val/instapilot/internal/comment"
	"github.com/drey-val/instapilot/internal/config"
	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/dm"
	"github.com/drey-val/instapilot/internal/interact"
	"github.com/drey-val/instapilot/internal/report"
	"github.com/drey-val/instapilot/internal/session"
	"github.com/drey-val/instapilot/internal/types"
)

// App holds the application state.
type App struct {
	cfg  *config.Config
	pool *session.Pool
	log  *logrus.Logger
	pace delay.Strategy
}

// New creates an App from configuration.
func New(cfg *config.Config, log *logrus.Logger) *App {
	pace := delay.Human{}
	return &App{
		cfg:  cfg,
		pool: session.NewPool(cfg.Browser.Headless, cfg.Browser.CookiePath, log, pace),
		log:  log,
		pace: pace,
	}
}

// Close tears down any live session.
func (a *App) Close() {
	a.pool.Close()
}

func (a *App) session(ctx context.Context) (*session.Session, error) {
	if err := a.cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	return a.pool.Get(ctx, a.cfg.Credentials.Username, a.cfg.Credentials.Password)
}

// RunAnalysis analyzes a profile and writes the report to the output
// directory. Returns the report and the path it was written to.
func (a *App) RunAnalysis(ctx context.Context, handle string) (*types.AnalysisReport, string, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return nil, "", err
	}

	pipeline := analysis.NewPipeline(sess, nil, a.pace, a.log)
	r, err := pipeline.Analyze(ctx, handle, analysis.Options{
		DaysBack:           a.cfg.Analysis.DaysBack,
		MaxPosts:           a.cfg.Analysis.MaxPosts,
		MaxCommentsPerPost: a.cfg.Analysis.MaxCommentsPerPost,
		IncludeMediaURLs:   a.cfg.Analysis.IncludeMediaURLs,
		RateLimit:          time.Duration(a.cfg.Analysis.RateLimitMs) * time.Millisecond,
	})
	if err != nil {
		return nil, "", err
	}

	path, err := report.NewWriter(a.cfg.Analysis.OutputDir).Write(r)
	if err != nil {
		return nil, "", err
	}
	a.log.Infof("report saved to %s (%d posts)", path, r.TotalPosts)
	return r, path, nil
}

// ScrapeFollowers collects up to max follower handles from a profile's
// followers modal.
func (a *App) ScrapeFollowers(ctx context.Context, handle string, max int) ([]string, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.NewPipeline(sess, nil, a.pace, a.log).ScrapeFollowers(ctx, handle, max)
}

// RunInteractions likes and comments on feed posts. shouldExit is
// polled once per post for cooperative cancellation; nil means run to
// the cap.
func (a *App) RunInteractions(ctx context.Context, shouldExit func() bool) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	generator := comment.NewAnthropicGenerator(a.cfg.Comment.APIKey, a.cfg.Comment.Model)
	loop := interact.NewLoop(sess, generator, a.pace, a.log)
	loop.MaxPosts = a.cfg.Interact.MaxPosts
	loop.ShouldExit = shouldExit
	if a.cfg.Interact.SkipOnError {
		loop.Policy = interact.SkipOnError
	}

	return loop.Run(ctx)
}

// SendMessage sends a single direct message, with optional media.
func (a *App) SendMessage(ctx context.Context, handle, text, mediaPath string) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	return dm.NewSender(sess, a.pace, a.log).SendDirectMessageWithMedia(ctx, handle, text, mediaPath)
}

// SendBatch sends a message to every handle in a newline-delimited file.
func (a *App) SendBatch(ctx context.Context, listPath, text, mediaPath string) error {
	f, err := os.Open(listPath)
	if err != nil {
		return fmt.Errorf("failed to open recipient list: %w", err)
	}
	defer f.Close()

	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	return dm.NewSender(sess, a.pace, a.log).SendFromList(ctx, f, text, mediaPath)
}
