package pruner

import (
	"sync/atomic"

	"github.com/Gunvolt24/rmq_pruner/internal/domain"
)

// Counters — разделяемые счётчики одного запуска. processed резервируется
// ДО обработки сообщения: CAS-цикл в TryAcquire гарантирует, что два
// воркера не проскочат лимит max одновременно. max <= 0 — без лимита.
type Counters struct {
	max         int64
	processed   atomic.Int64
	matched     atomic.Int64
	republished atomic.Int64
}

func NewCounters(maxMessages int64) *Counters {
	return &Counters{max: maxMessages}
}

// TryAcquire — атомарно резервирует слот под одно сообщение.
// false означает, что лимит max-messages уже выбран и сообщение
// обрабатывать нельзя.
func (c *Counters) TryAcquire() bool {
	for {
		cur := c.processed.Load()
		if c.max > 0 && cur >= c.max {
			return false
		}
		if c.processed.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Release — возвращает слот, зарезервированный TryAcquire: сообщение
// ушло обратно брокеру необработанным и не должно расходовать лимит
// и фигурировать в итоге как обработанное.
func (c *Counters) Release() { c.processed.Add(-1) }

func (c *Counters) MarkMatched()     { c.matched.Add(1) }
func (c *Counters) MarkRepublished() { c.republished.Add(1) }

// Processed — текущее количество зарезервированных сообщений.
func (c *Counters) Processed() int64 { return c.processed.Load() }

// Exhausted — true, если лимит задан и полностью выбран.
func (c *Counters) Exhausted() bool {
	return c.max > 0 && c.processed.Load() >= c.max
}

// Snapshot — итог для финального отчёта.
func (c *Counters) Snapshot() domain.Summary {
	return domain.Summary{
		Processed:   c.processed.Load(),
		Matched:     c.matched.Load(),
		Republished: c.republished.Load(),
	}
}
