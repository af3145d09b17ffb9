package whatsapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastClassifier(timeout time.Duration) *Classifier {
	c := NewClassifier(timeout)
	c.Settle = 0
	c.PollInterval = time.Millisecond
	c.ErrorBackoff = time.Millisecond
	return c
}

func TestClassify_InvalidModal(t *testing.T) {
	s := newFakeSession().always(selectorInvalidModal)

	res, err := fastClassifier(time.Second).Classify(context.Background(), s, "+92 300 1234567")
	require.NoError(t, err)

	assert.Equal(t, Invalid, res.Verdict)
	assert.False(t, res.IsValid())
	assert.Contains(t, res.Reason, "popup")
	assert.Equal(t, "+92 300 1234567", res.Number, "result keeps the number as given")
	assert.Equal(t, 0, s.queries(selectorConversationHeader), "modal short-circuits the other checks")
}

func TestClassify_ConversationHeader(t *testing.T) {
	s := newFakeSession().after(selectorConversationHeader, 3)

	res, err := fastClassifier(time.Second).Classify(context.Background(), s, "923001234567")
	require.NoError(t, err)

	assert.Equal(t, Valid, res.Verdict)
	assert.Equal(t, ReasonConversationHeader, res.Reason)
}

func TestClassify_InvalidModalWinsOverHeader(t *testing.T) {
	s := newFakeSession().always(selectorInvalidModal).always(selectorConversationHeader)

	res, err := fastClassifier(time.Second).Classify(context.Background(), s, "1")
	require.NoError(t, err)
	assert.Equal(t, Invalid, res.Verdict)
}

func TestClassify_RetryBannerUntilTimeout(t *testing.T) {
	s := newFakeSession().always(selectorRetryBanner)

	start := time.Now()
	res, err := fastClassifier(40*time.Millisecond).Classify(context.Background(), s, "923001234567")
	require.NoError(t, err)

	assert.Equal(t, Invalid, res.Verdict)
	assert.Contains(t, res.Reason, "retry banner")
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "banner does not short-circuit")
	assert.Greater(t, s.queries(selectorRetryBanner), 1)
}

func TestClassify_RetryBannerThenHeader(t *testing.T) {
	s := newFakeSession().always(selectorRetryBanner).after(selectorConversationHeader, 2)

	res, err := fastClassifier(time.Second).Classify(context.Background(), s, "1")
	require.NoError(t, err)
	assert.Equal(t, Valid, res.Verdict)
}

func TestClassify_NoSignalsDefaultsToValid(t *testing.T) {
	s := newFakeSession()

	res, err := fastClassifier(30*time.Millisecond).Classify(context.Background(), s, "923001234567")
	require.NoError(t, err)

	assert.Equal(t, Valid, res.Verdict)
	assert.Equal(t, ReasonNoInvalidPopup, res.Reason)
}

func TestClassify_TransientErrorsAreRetried(t *testing.T) {
	s := newFakeSession().failing(selectorInvalidModal, 3, true)

	res, err := fastClassifier(time.Second).Classify(context.Background(), s, "1")
	require.NoError(t, err)

	assert.Equal(t, Invalid, res.Verdict)
	assert.Equal(t, 4, s.queries(selectorInvalidModal))
}

func TestClassify_RetryBannerKeptWhenLaterQueryFails(t *testing.T) {
	s := newFakeSession().
		once(selectorRetryBanner, 0).
		failing(selectorConversationHeader, 1, false)

	res, err := fastClassifier(50*time.Millisecond).Classify(context.Background(), s, "1")
	require.NoError(t, err)

	assert.Equal(t, Invalid, res.Verdict)
	assert.Equal(t, ReasonRetryBanner, res.Reason)
	assert.Greater(t, s.queries(selectorRetryBanner), 1)
}

func TestClassify_NavigationErrorDoesNotAbort(t *testing.T) {
	s := newFakeSession().always(selectorConversationHeader)
	s.navigateErr = errors.New("net::ERR_CONNECTION_RESET")

	res, err := fastClassifier(time.Second).Classify(context.Background(), s, "1")
	require.NoError(t, err)
	assert.Equal(t, Valid, res.Verdict)
}

func TestClassify_NavigatesToDeepLink(t *testing.T) {
	s := newFakeSession().always(selectorConversationHeader)

	_, err := fastClassifier(time.Second).Classify(context.Background(), s, "+92 300 1234567")
	require.NoError(t, err)

	require.Len(t, s.navigated, 1)
	assert.Equal(t, "https://web.whatsapp.com/send?phone=923001234567&text=&type=phone_number&app_absent=0", s.navigated[0])
}

func TestClassify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := fastClassifier(time.Second)
	c.Settle = time.Hour

	_, err := c.Classify(ctx, newFakeSession(), "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier(0)
	assert.Equal(t, DefaultClassifyTimeout, c.Timeout)
	assert.Equal(t, 3*time.Second, c.Settle)
	assert.Equal(t, 500*time.Millisecond, c.PollInterval)
	assert.Equal(t, time.Second, c.ErrorBackoff)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
}
