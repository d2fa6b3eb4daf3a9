// Package dm sends direct messages through the Instagram web UI.
package dm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/drey-val/instapilot/internal/delay"
	"github.com/drey-val/instapilot/internal/igerrors"
	"github.com/drey-val/instapilot/internal/selectors"
	"github.com/drey-val/instapilot/internal/session"
)

const (
	profileSettle   = 3 * time.Second
	modalSettle     = 2 * time.Second
	uploadSettle    = 2 * time.Second
	typeSettle      = 2 * time.Second
	recipientDelay  = 30 * time.Second
	profileNavLimit = 60 * time.Second
)

// Sender delivers direct messages over an authenticated session.
type Sender struct {
	sess *session.Session
	pace delay.Strategy
	log  *logrus.Logger
}

// NewSender builds a sender over an authenticated session.
func NewSender(sess *session.Session, pace delay.Strategy, log *logrus.Logger) *Sender {
	return &Sender{sess: sess, pace: pace, log: log}
}

// SendDirectMessage sends a plain text message to a user.
func (s *Sender) SendDirectMessage(ctx context.Context, handle, text string) error {
	if err := s.SendDirectMessageWithMedia(ctx, handle, text, ""); err != nil {
		return fmt.Errorf("failed to send direct message: %w", err)
	}
	return nil
}

// SendDirectMessageWithMedia sends a message with an optional media
// attachment. Missing required controls (message button, message input,
// send button) fail with ElementNotFoundError.
func (s *Sender) SendDirectMessageWithMedia(ctx context.Context, handle, text, mediaPath string) error {
	page, err := s.sess.Page()
	if err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(page, profileNavLimit)
	if err := chromedp.Run(navCtx, chromedp.Navigate(selectors.ProfileURL(handle))); err != nil {
		cancel()
		return fmt.Errorf("failed to open profile @%s: %w", handle, err)
	}
	cancel()
	s.log.Infof("navigated to profile @%s", handle)
	if err := s.pace.Sleep(ctx, profileSettle); err != nil {
		return err
	}

	if err := s.clickByExactText(page, selectors.MessageButtonText, "message button"); err != nil {
		return err
	}
	if err := s.pace.Sleep(ctx, modalSettle); err != nil {
		return err
	}
	s.sess.DismissNotificationPopup(ctx)

	if mediaPath != "" {
		if err := s.uploadMedia(ctx, page, mediaPath); err != nil {
			return err
		}
	}

	if err := s.typeMessage(page, text); err != nil {
		return err
	}
	s.sess.DismissNotificationPopup(ctx)
	if err := s.pace.Sleep(ctx, typeSettle); err != nil {
		return err
	}

	if err := s.clickByExactText(page, selectors.SendButtonText, "send button"); err != nil {
		return err
	}
	s.sess.DismissNotificationPopup(ctx)

	s.log.Infof("message sent to @%s", handle)
	return nil
}

// SendFromList processes a newline-delimited list of handles
// sequentially, pausing between recipients to reduce abuse-detection
// risk. One recipient failing does not halt the batch.
func (s *Sender) SendFromList(ctx context.Context, list io.Reader, text, mediaPath string) error {
	scanner := bufio.NewScanner(list)
	for scanner.Scan() {
		handle := strings.TrimSpace(scanner.Text())
		if handle == "" {
			continue
		}

		s.sess.DismissNotificationPopup(ctx)
		if err := s.SendDirectMessageWithMedia(ctx, handle, text, mediaPath); err != nil {
			s.log.Errorf("failed to send DM to @%s: %v", handle, err)
		}
		s.sess.DismissNotificationPopup(ctx)

		if err := s.pace.Sleep(ctx, recipientDelay); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// clickByExactText clicks the first clickable element whose trimmed
// text equals the given label.
func (s *Sender) clickByExactText(page context.Context, label, role string) error {
	js := fmt.Sprintf(`
		(function() {
			const candidates = document.querySelectorAll(%q);
			for (const el of candidates) {
				if ((el.textContent || '').trim() === %q) {
					el.click();
					return true;
				}
			}
			return false;
		})()
	`, selectors.ClickableQuery+", "+selectors.DirectThreadLink, label)

	var clicked bool
	if err := chromedp.Run(page, chromedp.Evaluate(js, &clicked)); err != nil {
		return fmt.Errorf("failed to click %s: %w", role, err)
	}
	if !clicked {
		return &igerrors.ElementNotFoundError{Role: role}
	}
	return nil
}

func (s *Sender) uploadMedia(ctx context.Context, page context.Context, mediaPath string) error {
	present, err := exists(page, selectors.FileInput)
	if err != nil {
		return fmt.Errorf("failed to probe file input: %w", err)
	}
	if !present {
		s.log.Warn("file input for media not found")
		return nil
	}

	if err := chromedp.Run(page,
		chromedp.SetUploadFiles(selectors.FileInput, []string{mediaPath}, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}
	s.sess.DismissNotificationPopup(ctx)
	return s.pace.Sleep(ctx, uploadSettle)
}

// typeMessage locates the message input among the candidate selectors
// (first match wins) and types the text into it.
func (s *Sender) typeMessage(page context.Context, text string) error {
	for _, sel := range selectors.MessageInputSelectors {
		present, err := exists(page, sel)
		if err != nil || !present {
			continue
		}
		if err := chromedp.Run(page, chromedp.SendKeys(sel, text, chromedp.ByQuery)); err != nil {
			return fmt.Errorf("failed to type message: %w", err)
		}
		return nil
	}
	return &igerrors.ElementNotFoundError{Role: "message input"}
}

func exists(page context.Context, selector string) (bool, error) {
	var present bool
	js := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	err := chromedp.Run(page, chromedp.Evaluate(js, &present))
	return present, err
}
