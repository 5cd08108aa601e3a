//go:build integration

package rabbit_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/rmq_pruner/internal/match"
	"github.com/Gunvolt24/rmq_pruner/internal/pruner"
	"github.com/Gunvolt24/rmq_pruner/internal/rabbit"
	"github.com/Gunvolt24/rmq_pruner/internal/testutil"
	"github.com/Gunvolt24/rmq_pruner/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

func startBroker(t *testing.T) *testutil.RabbitTC {
	t.Helper()

	// Длинный контекст только на старт контейнера.
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	tc, stop, err := testutil.StartRabbitTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })
	return tc
}

func dial(t *testing.T, tc *testutil.RabbitTC, prefetch int) *rabbit.Channel {
	t.Helper()

	cfg := tc.Config
	cfg.Prefetch = prefetch
	ch, err := rabbit.Dial(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })
	return ch
}

// 1) Круг get/ack: забрали, подтвердили, очередь опустела.
func TestRabbit_GetAck_TC(t *testing.T) {
	tc := startBroker(t)
	queue := "itc-" + safe(t)
	require.NoError(t, tc.DeclareQueue(queue))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, tc.Seed(ctx, queue, "one", "two"))

	ch := dial(t, tc, 10)

	msg1, ok, err := ch.Get(ctx, queue)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", string(msg1.Body))
	require.False(t, msg1.Redelivered)

	msg2, ok, err := ch.Get(ctx, queue)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", string(msg2.Body))

	require.NoError(t, ch.Ack(msg1.Tag, false))
	require.NoError(t, ch.Ack(msg2.Tag, false))

	_, ok, err = ch.Get(ctx, queue)
	require.NoError(t, err)
	require.False(t, ok, "queue must be empty after both acks")
}

// 2) Nack с requeue возвращает сообщение в очередь с флагом redelivered.
func TestRabbit_NackRequeue_TC(t *testing.T) {
	tc := startBroker(t)
	queue := "itc-" + safe(t)
	require.NoError(t, tc.DeclareQueue(queue))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, tc.Seed(ctx, queue, "payload"))

	ch := dial(t, tc, 1)

	msg, ok, err := ch.Get(ctx, queue)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, ch.Nack(msg.Tag, true))

	again, ok, err := ch.Get(ctx, queue)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "payload", string(again.Body))
	require.True(t, again.Redelivered)
	require.NoError(t, ch.Ack(again.Tag, false))
}

// 3) Полный прогон: foo/bar удаляются, baz тоже (republish выключен),
// очередь в итоге пуста.
func TestRabbit_PruneDropAll_TC(t *testing.T) {
	tc := startBroker(t)
	queue := "itc-" + safe(t)
	require.NoError(t, tc.DeclareQueue(queue))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, tc.Seed(ctx, queue, "foo-1", "bar-2", "baz-3"))

	ch := dial(t, tc, 2)

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	matcher, err := match.New(match.Config{Terms: []string{"foo", "bar"}, Mode: match.ModeAny})
	require.NoError(t, err)

	counters := pruner.NewCounters(0)
	acker := pruner.NewAcker(ch, queue, 2)
	coord := pruner.NewCoordinator(ch, matcher, acker, counters, logg, pruner.Options{
		Queue:   queue,
		Workers: 2,
	})

	sum, err := coord.Run(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, sum.Processed)
	require.EqualValues(t, 2, sum.Matched)
	require.EqualValues(t, 0, sum.Republished)

	left, err := tc.QueueLen(queue)
	require.NoError(t, err)
	require.Zero(t, left)
}

// 4) Republish: режим all не совпадает ни с одним телом, все три
// уходят обратно в очередь; лимит ограничивает прогон первым кругом.
func TestRabbit_PruneRepublish_TC(t *testing.T) {
	tc := startBroker(t)
	queue := "itc-" + safe(t)
	require.NoError(t, tc.DeclareQueue(queue))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, tc.Seed(ctx, queue, "foo-1", "bar-2", "baz-3"))

	ch := dial(t, tc, 3)

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	matcher, err := match.New(match.Config{Terms: []string{"foo", "bar"}, Mode: match.ModeAll})
	require.NoError(t, err)

	// Лимит в размер бэклога: переопубликованные копии не обрабатываются
	// по второму кругу.
	counters := pruner.NewCounters(3)
	acker := pruner.NewAcker(ch, queue, 3)
	coord := pruner.NewCoordinator(ch, matcher, acker, counters, logg, pruner.Options{
		Queue:     queue,
		Workers:   1,
		Republish: true,
	})

	sum, err := coord.Run(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, sum.Processed)
	require.EqualValues(t, 0, sum.Matched)
	require.EqualValues(t, 3, sum.Republished)

	left, err := tc.QueueLen(queue)
	require.NoError(t, err)
	require.Equal(t, 3, left, "republished copies must be back on the queue")
}

// 5) max-messages=2 при пяти доступных: два подтверждены, три остаются.
func TestRabbit_MaxMessages_TC(t *testing.T) {
	tc := startBroker(t)
	queue := "itc-" + safe(t)
	require.NoError(t, tc.DeclareQueue(queue))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, tc.Seed(ctx, queue, "m1", "m2", "m3", "m4", "m5"))

	ch := dial(t, tc, 10)

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	matcher, err := match.New(match.Config{Terms: []string{"m"}, Mode: match.ModeAny})
	require.NoError(t, err)

	counters := pruner.NewCounters(2)
	acker := pruner.NewAcker(ch, queue, 10)
	coord := pruner.NewCoordinator(ch, matcher, acker, counters, logg, pruner.Options{
		Queue:   queue,
		Workers: 1,
	})

	sum, err := coord.Run(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, sum.Processed)

	left, err := tc.QueueLen(queue)
	require.NoError(t, err)
	require.Equal(t, 3, left)
}
