package pgfeed

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"wedding-app-go/internal/realtime"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, Channel("photo_comments"), "realtime_photo_comments")
}

func TestEncodeRejectsLargePayload(t *testing.T) {
	big := map[string]string{"id": "1", "body": strings.Repeat("x", MaxPayload)}
	env, err := realtime.NewEnvelope("photo_comments", realtime.KindInsert, "w1", big, nil)
	assert.Equal(t, err, nil)

	_, err = encode(env)
	assert.Equal(t, errors.Is(err, ErrPayloadTooLarge), true)
}

func TestEncode(t *testing.T) {
	env, err := realtime.NewEnvelope("guests", realtime.KindInsert, "w1", map[string]string{"id": "g1"}, nil)
	assert.Equal(t, err, nil)

	payload, err := encode(env)
	assert.Equal(t, err, nil)

	var decoded realtime.Envelope
	assert.Equal(t, json.Unmarshal([]byte(payload), &decoded), nil)
	assert.Equal(t, decoded.ID, env.ID)
	assert.Equal(t, decoded.Table, "guests")
}

func TestNewDefaults(t *testing.T) {
	feed := New(nil, Options{MaxReconnect: 1}, nil)

	assert.Equal(t, feed.opts.MinReconnect > 0, true)
	assert.Equal(t, feed.opts.MaxReconnect, feed.opts.MinReconnect)
	assert.Equal(t, feed.opts.Buffer, realtime.DefaultSubscriberBuffer)
}
