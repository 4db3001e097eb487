package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

var seattle = models.Location{ID: 42, SearchQuery: "Seattle", FormattedQuery: "Seattle, WA, USA", Latitude: 47.6, Longitude: -122.3}

type fakeClient struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.task = task
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "warm:42", Queue: QueueWarm}, nil
}

type fakeWarmer struct {
	warmed []models.Location
	err    error
}

func (f *fakeWarmer) WarmAll(ctx context.Context, loc models.Location) error {
	f.warmed = append(f.warmed, loc)
	return f.err
}

func TestEnqueuerLocationCreated(t *testing.T) {
	client := &fakeClient{}
	require.NoError(t, NewEnqueuer(client).LocationCreated(context.Background(), seattle))

	require.NotNil(t, client.task)
	assert.Equal(t, TaskWarmLocation, client.task.Type())

	var p WarmLocationPayload
	require.NoError(t, json.Unmarshal(client.task.Payload(), &p))
	assert.Equal(t, seattle, p.Location)

	got := map[asynq.OptionType]any{}
	for _, o := range client.opts {
		got[o.Type()] = o.Value()
	}
	assert.Equal(t, "warm:42", got[asynq.TaskIDOpt])
	assert.Equal(t, QueueWarm, got[asynq.QueueOpt])
	assert.Equal(t, 3, got[asynq.MaxRetryOpt])
	assert.Equal(t, time.Minute, got[asynq.TimeoutOpt])
}

func TestEnqueuerDuplicateIsNotAnError(t *testing.T) {
	client := &fakeClient{err: asynq.ErrTaskIDConflict}
	assert.NoError(t, NewEnqueuer(client).LocationCreated(context.Background(), seattle))
}

func TestEnqueuerFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("dial tcp: connection refused")}
	err := NewEnqueuer(client).LocationCreated(context.Background(), seattle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue warm location 42")
}

func TestHandleWarmLocation(t *testing.T) {
	w := &fakeWarmer{}
	task, err := NewWarmLocationTask(seattle)
	require.NoError(t, err)

	require.NoError(t, HandleWarmLocation(w)(context.Background(), task))
	assert.Equal(t, []models.Location{seattle}, w.warmed)
}

func TestHandleWarmLocationRetriesLookupFailure(t *testing.T) {
	w := &fakeWarmer{err: errors.New("warm weather: upstream unavailable")}
	task, err := NewWarmLocationTask(seattle)
	require.NoError(t, err)

	err = HandleWarmLocation(w)(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleWarmLocationBadPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{"},
		{"no location", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWarmer{}
			err := HandleWarmLocation(w)(context.Background(), asynq.NewTask(TaskWarmLocation, []byte(tt.payload)))
			assert.ErrorIs(t, err, asynq.SkipRetry)
			assert.Empty(t, w.warmed)
		})
	}
}
