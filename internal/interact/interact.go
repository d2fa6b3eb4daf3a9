// Package interact implements the feed interaction loop: like visible
// posts and reply to them with a generated comment.
package interact

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/comment"
	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/selectors"
	"github.com/drey-val/instapilot/internal/session"
)

// ErrorPolicy decides what a single post's failure does to the loop.
type ErrorPolicy int

const (
	// AbortOnError stops the whole loop on the first failure. Fastest
	// way to notice markup drift.
	AbortOnError ErrorPolicy = iota
	// SkipOnError logs the failure and moves to the next post.
	SkipOnError
)

// DefaultMaxPosts caps the loop to prevent endless scrolling.
const DefaultMaxPosts = 20

const commentSettle = 2 * time.Second

// Loop iterates the feed posts one by one.
type Loop struct {
	sess      *session.Session
	generator comment.Generator
	pace      delay.Strategy
	log       *logrus.Logger

	// MaxPosts bounds the iteration; zero means DefaultMaxPosts.
	MaxPosts int
	// Policy controls per-post failure handling.
	Policy ErrorPolicy
	// ShouldExit is polled once per iteration for cooperative
	// cancellation. Nil means never.
	ShouldExit func() bool
}

// NewLoop builds an interaction loop over an authenticated session.
func NewLoop(sess *session.Session, generator comment.Generator, pace delay.Strategy, log *logrus.Logger) *Loop {
	return &Loop{
		sess:      sess,
		generator: generator,
		pace:      pace,
		log:       log,
		MaxPosts:  DefaultMaxPosts,
	}
}

// Run walks posts by ordinal position until the cap, the end of the
// feed, the cancellation flag, or (under AbortOnError) the first error.
func (l *Loop) Run(ctx context.Context) error {
	page, err := l.sess.Page()
	if err != nil {
		return err
	}

	maxPosts := l.MaxPosts
	if maxPosts <= 0 {
		maxPosts = DefaultMaxPosts
	}

	for index := 1; index <= maxPosts; index++ {
		if l.ShouldExit != nil && l.ShouldExit() {
			l.log.Info("exit from interactions requested, stopping loop")
			return nil
		}

		present, err := elementExists(page, selectors.PostByIndex(index))
		if err != nil {
			return fmt.Errorf("failed to probe post %d: %w", index, err)
		}
		if !present {
			l.log.Info("no more posts found, ending iteration")
			return nil
		}

		if err := l.processPost(ctx, page, index); err != nil {
			if l.Policy == SkipOnError {
				l.log.Errorf("error interacting with post %d, skipping: %v", index, err)
			} else {
				return fmt.Errorf("error interacting with post %d: %w", index, err)
			}
		}

		// Humanlike pause before moving on, then scroll one viewport.
		if err := l.pace.SleepBetween(ctx, 5*time.Second, 10*time.Second); err != nil {
			return err
		}
		if err := l.pace.Sleep(ctx, time.Second); err != nil {
			return err
		}
		if err := chromedp.Run(page,
			chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil),
		); err != nil {
			return fmt.Errorf("failed to scroll feed: %w", err)
		}
	}

	return nil
}

func (l *Loop) processPost(ctx context.Context, page context.Context, index int) error {
	if err := l.likePost(page, index); err != nil {
		return err
	}

	caption, err := l.extractCaption(page, index)
	if err != nil {
		return err
	}

	return l.commentOnPost(ctx, page, index, caption)
}

// likePost clicks the like control when the post is not yet liked. An
// already-liked or missing control is skipped, not an error.
func (l *Loop) likePost(page context.Context, index int) error {
	js := fmt.Sprintf(`
		(function() {
			const post = document.querySelector(%q);
			if (!post) return "";
			const control = post.querySelector(%q);
			return control ? control.getAttribute("aria-label") : "";
		})()
	`, selectors.PostByIndex(index), selectors.LikeStateControls)

	var state string
	if err := chromedp.Run(page, chromedp.Evaluate(js, &state)); err != nil {
		return fmt.Errorf("failed to read like state: %w", err)
	}

	switch state {
	case selectors.LikeLabel:
		l.log.Infof("liking post %d", index)
		if err := chromedp.Run(page, chromedp.Click(selectors.LikeControl(index), chromedp.ByQuery)); err != nil {
			return fmt.Errorf("failed to click like control: %w", err)
		}
		l.log.Infof("post %d liked", index)
	case selectors.UnlikeLabel:
		l.log.Infof("post %d is already liked", index)
	default:
		l.log.Infof("like control not found for post %d", index)
	}
	return nil
}

// extractCaption reads the caption text, expanding a truncated caption
// through the "more" control when one is rendered.
func (l *Loop) extractCaption(page context.Context, index int) (string, error) {
	caption, err := elementText(page, selectors.Caption(index))
	if err != nil {
		return "", fmt.Errorf("failed to read caption: %w", err)
	}
	if caption == "" {
		l.log.Infof("no caption found for post %d", index)
		return "", nil
	}

	morePresent, err := elementExists(page, selectors.CaptionMoreLink(index))
	if err != nil {
		return caption, nil
	}
	if morePresent {
		l.log.Infof("expanding caption for post %d", index)
		if err := chromedp.Run(page,
			chromedp.Click(selectors.CaptionMoreLink(index), chromedp.ByQuery),
		); err == nil {
			if expanded, err := elementText(page, selectors.Caption(index)); err == nil && expanded != "" {
				caption = expanded
			}
		}
	}

	return caption, nil
}

// commentOnPost generates a tone-matching comment for the caption and
// submits it through the post's comment box, if one is present.
func (l *Loop) commentOnPost(ctx context.Context, page context.Context, index int, caption string) error {
	present, err := elementExists(page, selectors.CommentBox(index))
	if err != nil {
		return fmt.Errorf("failed to probe comment box: %w", err)
	}
	if !present {
		l.log.Infof("comment box not found for post %d", index)
		return nil
	}

	l.log.Infof("commenting on post %d", index)
	candidates, err := l.generator.Generate(ctx, comment.InstagramCommentSchema(), comment.BuildPrompt(caption))
	if err != nil {
		return fmt.Errorf("failed to generate comment: %w", err)
	}
	text := comment.FirstComment(candidates)
	if text == "" {
		l.log.Infof("generator produced no comment for post %d", index)
		return nil
	}

	if err := chromedp.Run(page,
		chromedp.SendKeys(selectors.CommentBox(index), text, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to type comment: %w", err)
	}

	// Submit through the enabled control whose text is exactly "Post".
	js := fmt.Sprintf(`
		(function() {
			const buttons = Array.from(document.querySelectorAll(%q));
			const target = buttons.find(b => b.textContent === %q && !b.hasAttribute("disabled"));
			if (!target) return false;
			target.click();
			return true;
		})()
	`, selectors.ClickableQuery, selectors.PostButtonText)

	var submitted bool
	if err := chromedp.Run(page, chromedp.Evaluate(js, &submitted)); err != nil {
		return fmt.Errorf("failed to submit comment: %w", err)
	}
	if !submitted {
		l.log.Info("comment submit control not found")
		return nil
	}

	l.log.Infof("comment posted on post %d", index)
	return l.pace.Sleep(ctx, commentSettle)
}

func elementExists(page context.Context, selector string) (bool, error) {
	var present bool
	js := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	err := chromedp.Run(page, chromedp.Evaluate(js, &present))
	return present, err
}

func elementText(page context.Context, selector string) (string, error) {
	var text string
	js := fmt.Sprintf(`document.querySelector(%q)?.innerText ?? ""`, selector)
	err := chromedp.Run(page, chromedp.Evaluate(js, &text))
	return text, err
}
