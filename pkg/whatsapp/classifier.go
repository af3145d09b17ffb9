package whatsapp

import (
	"context"
	"time"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/logging"
)

// Classifier defaults
const (
	DefaultClassifyTimeout = 15 * time.Second
	DefaultSettle          = 3 * time.Second
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultErrorBackoff    = time.Second
)

// Classifier probes one number at a time against a logged-in session.
// It holds no per-session state, so one Classifier can serve many sessions.
type Classifier struct {
	// Timeout bounds the polling phase (not the settle period)
	Timeout time.Duration

	// Settle is waited after navigation before the first poll
	Settle time.Duration

	PollInterval time.Duration

	// ErrorBackoff is waited after a failed DOM query
	ErrorBackoff time.Duration

	log *logging.Logger
}

// NewClassifier returns a classifier with default timings. A zero timeout
// uses DefaultClassifyTimeout.
func NewClassifier(timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	return &Classifier{
		Timeout:      timeout,
		Settle:       DefaultSettle,
		PollInterval: DefaultPollInterval,
		ErrorBackoff: DefaultErrorBackoff,
		log:          classifierLog,
	}
}

// observation is what a single poll saw.
type observation struct {
	invalidModal bool
	retryBanner  bool
	header       bool
}

// Classify opens the deep link for number in s and classifies the page state.
//
// It never fails on page errors: navigation and query failures are logged and
// polling continues until Timeout. The only error returned is ctx's, when the
// caller cancels mid-probe.
func (c *Classifier) Classify(ctx context.Context, s browser.Session, number string) (Result, error) {
	log := c.logger()
	result := Result{Number: number}

	link := DeepLink(number)
	log.Debugf("Opening URL for %s: %s", number, link)
	if err := s.Navigate(link); err != nil {
		log.Warnf("Navigation error for %s: %v", number, err)
	}

	if err := sleep(ctx, c.Settle); err != nil {
		return result, err
	}

	deadline := time.Now().Add(c.Timeout)
	sawRetryBanner := false

	for time.Now().Before(deadline) {
		obs, err := c.poll(s)
		if obs.retryBanner && !sawRetryBanner {
			sawRetryBanner = true
			log.Warnf("Retry/error banner seen for %s; may be transient.", number)
		}
		if err != nil {
			log.Warnf("Error while checking popups for %s: %v", number, err)
			if err := sleep(ctx, c.ErrorBackoff); err != nil {
				return result, err
			}
			continue
		}

		if obs.invalidModal {
			log.Debugf("Invalid-number modal detected for: %s", number)
			result.Verdict, result.Reason = Invalid, ReasonInvalidPopup
			return result, nil
		}

		if obs.header {
			log.Debugf("Conversation header detected for %s, treating as valid.", number)
			result.Verdict, result.Reason = Valid, ReasonConversationHeader
			return result, nil
		}

		if err := sleep(ctx, c.PollInterval); err != nil {
			return result, err
		}
	}

	if sawRetryBanner {
		log.Debugf("No invalid popup but retry banner seen for %s, treating as invalid.", number)
		result.Verdict, result.Reason = Invalid, ReasonRetryBanner
		return result, nil
	}

	log.Debugf("No invalid popup detected within timeout for %s, treating as valid.", number)
	result.Verdict, result.Reason = Valid, ReasonNoInvalidPopup
	return result, nil
}

// poll checks the three signals in priority order. The invalid modal is
// checked first and short-circuits the others. Signals seen before a failed
// query are still reported.
func (c *Classifier) poll(s browser.Session) (observation, error) {
	var obs observation
	var err error

	if obs.invalidModal, err = s.Exists(selectorInvalidModal); err != nil || obs.invalidModal {
		return obs, err
	}
	if obs.retryBanner, err = s.Exists(selectorRetryBanner); err != nil {
		return obs, err
	}
	obs.header, err = s.Exists(selectorConversationHeader)
	return obs, err
}

var classifierLog = logging.NewLogger("classifier")

func (c *Classifier) logger() *logging.Logger {
	if c.log == nil {
		return classifierLog
	}
	return c.log
}
