package pruner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/rmq_pruner/internal/domain"
	"github.com/Gunvolt24/rmq_pruner/internal/match"
	"github.com/Gunvolt24/rmq_pruner/internal/ports"
)

// state — фаза жизненного цикла запуска.
type state int32

const (
	stateStarting state = iota
	stateRunning
	stateDraining
	stateStopped
)

func (s state) String() string {
	switch s {
	case stateStarting:
		return "starting"
	case stateRunning:
		return "running"
	case stateDraining:
		return "draining"
	case stateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options — параметры одного запуска координатора.
type Options struct {
	Queue     string
	Workers   int
	Republish bool
}

// Coordinator — владелец запуска: поднимает воркеров, следит за лимитом
// и фатальными ошибками, гасит всех по сигналу и гарантирует финальный
// сброс ack-батча ровно один раз. Жизненный цикл:
// starting → running → draining → stopped.
type Coordinator struct {
	ch       ports.QueueChannel
	matcher  *match.Matcher
	acker    *Acker
	counters *Counters
	log      ports.Logger
	opts     Options

	st atomic.Int32
}

// NewCoordinator — DI-конструктор. Workers < 1 приводится к 1.
func NewCoordinator(
	ch ports.QueueChannel,
	matcher *match.Matcher,
	acker *Acker,
	counters *Counters,
	log ports.Logger,
	opts Options,
) *Coordinator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Coordinator{
		ch:       ch,
		matcher:  matcher,
		acker:    acker,
		counters: counters,
		log:      log,
		opts:     opts,
	}
}

// Run — выполняет запуск до конца и возвращает итог. Ненулевая ошибка
// означает грязную остановку (ошибка брокера или сброса ack) и должна
// отражаться в коде выхода процесса.
func (c *Coordinator) Run(ctx context.Context) (domain.Summary, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.transition(ctx, stateRunning)
	c.log.Infof(ctx, "run started queue=%q workers=%d republish=%v",
		c.opts.Queue, c.opts.Workers, c.opts.Republish)

	// requestStop переводит запуск в DRAINING; воркеры замечают отмену
	// на своей следующей границе fetch-wait.
	requestStop := func() {
		c.transition(ctx, stateDraining)
		cancel()
	}

	// Первая фатальная ошибка от любого воркера; буфер на всех,
	// чтобы никто не завис на отправке.
	errCh := make(chan error, c.opts.Workers)

	var wg sync.WaitGroup
	for i := 0; i < c.opts.Workers; i++ {
		w := newWorker(i, c.ch, c.matcher, c.acker, c.counters,
			c.opts.Queue, c.opts.Republish, requestStop, c.log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
				requestStop()
			}
		}()
	}

	// Новых fetch'ей после начала DRAINING не будет: воркеры проверяют
	// контекст перед каждым Get.
	wg.Wait()
	c.transition(ctx, stateDraining)

	var runErr error
	select {
	case runErr = <-errCh:
		c.log.Errorf(ctx, "fatal worker error: %v", runErr)
	default:
	}

	// Финальный сброс — строго после остановки всех воркеров.
	if err := c.acker.DrainAndFlush(); err != nil {
		c.log.Errorf(ctx, "final ack flush failed: %v (pending=%d, will be redelivered)",
			err, c.acker.Pending())
		if runErr == nil {
			runErr = err
		}
	}

	c.transition(ctx, stateStopped)

	sum := c.counters.Snapshot()
	c.log.Infof(ctx, "run finished processed=%d matched=%d republished=%d dropped=%d clean=%v",
		sum.Processed, sum.Matched, sum.Republished, sum.Dropped(), runErr == nil)

	return sum, runErr
}

// transition — монотонный переход состояния (назад не ходим); каждый
// фактический переход логируется один раз.
func (c *Coordinator) transition(ctx context.Context, to state) {
	for {
		cur := state(c.st.Load())
		if cur >= to {
			return
		}
		if c.st.CompareAndSwap(int32(cur), int32(to)) {
			c.log.Infof(ctx, "state %s -> %s", cur, to)
			return
		}
	}
}
