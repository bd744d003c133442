package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

func newTestClient(t *testing.T) (*redisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	c := newRedisClient(rdb, "test_activity", logger)
	c.pollTimeout = 100 * time.Millisecond
	return c, mr
}

func TestRedisClient_PublishAndLength(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Publish(ctx, &models.ActivityJob{Kind: models.ActivityCustomerCreated, LicenseNumber: "L1"}))
	require.NoError(t, c.Publish(ctx, &models.ActivityJob{Kind: models.ActivityCustomerUpdated, LicenseNumber: "L1"}))

	length, err := c.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	items, err := mr.List("test_activity")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Contains(t, items[0], models.ActivityCustomerUpdated)
}

func TestRedisClient_ConsumeInOrder(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kinds := []string{models.ActivityCustomerCreated, models.ActivityServiceHistoryCreated, models.ActivityCustomerUpdated}
	for _, kind := range kinds {
		require.NoError(t, c.Publish(ctx, &models.ActivityJob{Kind: kind, LicenseNumber: "L1"}))
	}

	received := make(chan string, len(kinds))
	done := make(chan error, 1)
	go func() {
		done <- c.Consume(ctx, func(ctx context.Context, job *models.ActivityJob) error {
			received <- job.Kind
			return nil
		}, 1)
	}()

	var got []string
	for i := 0; i < len(kinds); i++ {
		select {
		case kind := <-received:
			got = append(got, kind)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for job %d", i)
		}
	}
	assert.Equal(t, kinds, got)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "Consume() error = %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestRedisClient_ConsumeSkipsMalformedJobs(t *testing.T) {
	c, mr := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := mr.Lpush("test_activity", "{not json")
	require.NoError(t, err)
	require.NoError(t, c.Publish(ctx, &models.ActivityJob{Kind: models.ActivityCustomerDeleted, LicenseNumber: "L9"}))

	received := make(chan *models.ActivityJob, 1)
	go func() {
		_ = c.Consume(ctx, func(ctx context.Context, job *models.ActivityJob) error {
			received <- job
			return errors.New("handler errors are logged, not fatal")
		}, 3)
	}()

	select {
	case job := <-received:
		assert.Equal(t, "L9", job.LicenseNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for valid job")
	}
}

func TestRedisClient_Health(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, c.Health(context.Background()))

	mr.Close()
	assert.Error(t, c.Health(context.Background()))
}
