package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid", fmt.Errorf("search: %w", ErrInvalidInput), KindInvalidInput},
		{"not found", &FetchError{StatusCode: http.StatusNotFound}, KindNotFound},
		{"rate limited", fmt.Errorf("wrapped: %w", &FetchError{StatusCode: http.StatusTooManyRequests}), KindRateLimited},
		{"unauthorized", &FetchError{StatusCode: http.StatusUnauthorized}, KindUnauthorized},
		{"server error", &FetchError{StatusCode: http.StatusInternalServerError}, KindUnknown},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), KindTimeout},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("dial tcp: connection refused")}, KindNetwork},
		{"unavailable", fmt.Errorf("%w: open", ErrUnavailable), KindNetwork},
		{"refused text", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), KindNetwork},
		{"geo denied", ErrLocationDenied, KindLocationDenied},
		{"geo unavailable", ErrLocationUnavailable, KindLocationUnavailable},
		{"geo timeout", ErrLocationTimeout, KindLocationTimeout},
		{"other", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestUserMessages_AreDistinct(t *testing.T) {
	seen := map[string]Kind{}
	for kind := range messages {
		msg := UserMessage(kind)
		assert.NotEmpty(t, msg)
		if prev, ok := seen[msg]; ok {
			t.Fatalf("kinds %s and %s share a message", prev, kind)
		}
		seen[msg] = kind
	}
	assert.Contains(t, UserMessage(KindNotFound), "City not found")
	assert.Equal(t, UserMessage(KindUnknown), UserMessage(Kind("bogus")))
}

func TestNewUserError(t *testing.T) {
	ue := NewUserError(&FetchError{StatusCode: 404, Status: "Not Found"})
	assert.Equal(t, KindNotFound, ue.Kind)
	assert.Equal(t, UserMessage(KindNotFound), ue.Error())

	var fe *FetchError
	assert.True(t, errors.As(ue, &fe))
	assert.Same(t, ue, NewUserError(fmt.Errorf("again: %w", ue)))
}

func TestFetchError_Message(t *testing.T) {
	assert.Equal(t, "weather api: 404 Not Found", (&FetchError{StatusCode: 404}).Error())
	assert.Equal(t, "weather api: 429 Slow down", (&FetchError{StatusCode: 429, Status: "Slow down"}).Error())
}

func TestUnits(t *testing.T) {
	u, err := ParseUnits("imperial")
	assert.NoError(t, err)
	assert.Equal(t, UnitsImperial, u)
	assert.Equal(t, UnitsMetric, u.Toggle())
	assert.Equal(t, UnitsImperial, UnitsMetric.Toggle())
	_, err = ParseUnits("kelvin")
	assert.Error(t, err)
}
