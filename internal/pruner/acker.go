package pruner

import (
	"fmt"
	"sync"

	"github.com/Gunvolt24/rmq_pruner/internal/ports"
	"github.com/Gunvolt24/rmq_pruner/pkg/metrics"
)

// Acker — батчевый acknowledger. Копит теги доставок и подтверждает их
// одним проходом, когда буфер достигает batchSize либо при финальном
// DrainAndFlush. Единственный владелец буфера; воркеры только submit'ят.
//
// Стратегия подтверждения: отдельный basic.ack на каждый тег
// (multiple=false). Кумулятивный ack до максимального тега здесь
// недопустим: на канале, разделяемом конкурентными воркерами, он накрыл
// бы и доставки, которые другой воркер ещё не дообработал, нарушив
// порядок publish-then-ack.
type Acker struct {
	mu        sync.Mutex
	ch        ports.QueueChannel
	queue     string
	batchSize int
	pending   []uint64
}

// NewAcker — конструктор. batchSize < 1 приводится к 1.
func NewAcker(ch ports.QueueChannel, queue string, batchSize int) *Acker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Acker{
		ch:        ch,
		queue:     queue,
		batchSize: batchSize,
		pending:   make([]uint64, 0, batchSize),
	}
}

// Submit — добавляет тег в буфер; при достижении порога синхронно
// сбрасывает батч. Ошибка сброса фатальна для запуска.
func (a *Acker) Submit(tag uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = append(a.pending, tag)
	metrics.AckBufferSize.Set(float64(len(a.pending)))

	if len(a.pending) >= a.batchSize {
		return a.flushLocked()
	}
	return nil
}

// Flush — принудительный сброс накопленных тегов.
func (a *Acker) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushLocked()
}

// DrainAndFlush — финальный сброс при остановке. Вызывается координатором
// ровно один раз, после того как все воркеры остановились. На пустом
// буфере — no-op, поэтому повторное подтверждение уже сброшенных тегов
// невозможно.
func (a *Acker) DrainAndFlush() error {
	if err := a.Flush(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Pending — текущий размер буфера (для логов и тестов).
func (a *Acker) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// flushLocked — сброс под уже взятым мьютексом. Буфер очищается только
// после того, как ВСЕ теги подтверждены брокером; при ошибке буфер
// остаётся нетронутым, частичной очистки нет.
func (a *Acker) flushLocked() error {
	if len(a.pending) == 0 {
		return nil
	}

	for _, tag := range a.pending {
		if err := a.ch.Ack(tag, false); err != nil {
			return fmt.Errorf("ack batch of %d: %w", len(a.pending), err)
		}
	}

	metrics.AcksFlushed.WithLabelValues(a.queue).Add(float64(len(a.pending)))
	metrics.AckBatches.WithLabelValues(a.queue).Inc()

	a.pending = a.pending[:0]
	metrics.AckBufferSize.Set(0)
	return nil
}
