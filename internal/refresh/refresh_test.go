package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"weather-cache/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	keys []string
	err  error
}

func (f *fakeSource) Top(context.Context, int) ([]string, error) {
	return f.keys, f.err
}

type fakeProducer struct {
	published map[string][]byte
	failKey   string
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{published: map[string][]byte{}}
}

func (f *fakeProducer) Publish(_ context.Context, key, value []byte) error {
	if string(key) == f.failKey {
		return errors.New("broker unavailable")
	}
	f.published[string(key)] = value
	return nil
}

func TestPublishTop_EmitsOneRequestPerKey(t *testing.T) {
	source := &fakeSource{keys: []string{"New%20York", "London", "Tokyo"}}
	producer := newFakeProducer()
	p := NewPublisher(source, producer, 10, time.Minute, zerolog.Nop())

	require.NoError(t, p.PublishTop(context.Background()))
	require.Len(t, producer.published, 3)

	var req Request
	require.NoError(t, json.Unmarshal(producer.published["New%20York"], &req))
	assert.Equal(t, "New%20York", req.Location)
	assert.NotEmpty(t, req.ID)
}

func TestPublishTop_NoTrackedKeys(t *testing.T) {
	producer := newFakeProducer()
	p := NewPublisher(&fakeSource{}, producer, 10, time.Minute, zerolog.Nop())

	require.NoError(t, p.PublishTop(context.Background()))
	assert.Empty(t, producer.published)
}

func TestPublishTop_SourceError(t *testing.T) {
	p := NewPublisher(&fakeSource{err: errors.New("zset gone")}, newFakeProducer(), 10, time.Minute, zerolog.Nop())
	assert.Error(t, p.PublishTop(context.Background()))
}

func TestPublishTop_OneFailedPublishDoesNotStopTheRest(t *testing.T) {
	source := &fakeSource{keys: []string{"London", "Tokyo"}}
	producer := newFakeProducer()
	producer.failKey = "London"
	p := NewPublisher(source, producer, 10, time.Minute, zerolog.Nop())

	require.NoError(t, p.PublishTop(context.Background()))
	assert.Contains(t, producer.published, "Tokyo")
	assert.NotContains(t, producer.published, "London")
}

type fakeRefresher struct {
	refreshed []string
	err       error
}

func (f *fakeRefresher) Refresh(_ context.Context, rawLocation string) (models.Weather, error) {
	if f.err != nil {
		return models.Weather{}, f.err
	}
	f.refreshed = append(f.refreshed, rawLocation)
	return models.Weather{Location: rawLocation}, nil
}

func TestWorkerHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes the requested location", func(t *testing.T) {
		refresher := &fakeRefresher{}
		w := NewWorker(refresher, zerolog.Nop())

		value, err := json.Marshal(Request{ID: "req-1", Location: "New%20York"})
		require.NoError(t, err)

		require.NoError(t, w.Handle(ctx, []byte("New%20York"), value))
		assert.Equal(t, []string{"New%20York"}, refresher.refreshed)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		w := NewWorker(&fakeRefresher{}, zerolog.Nop())
		assert.Error(t, w.Handle(ctx, []byte("k"), []byte("{not json")))
	})

	t.Run("rejects empty locations", func(t *testing.T) {
		w := NewWorker(&fakeRefresher{}, zerolog.Nop())
		value, err := json.Marshal(Request{ID: "req-2"})
		require.NoError(t, err)
		assert.Error(t, w.Handle(ctx, []byte("k"), value))
	})

	t.Run("propagates refresh failures", func(t *testing.T) {
		w := NewWorker(&fakeRefresher{err: errors.New("provider down")}, zerolog.Nop())
		value, err := json.Marshal(Request{ID: "req-3", Location: "London"})
		require.NoError(t, err)
		assert.Error(t, w.Handle(ctx, []byte("London"), value))
	})
}
