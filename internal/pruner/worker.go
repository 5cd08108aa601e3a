package pruner

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/rmq_pruner/internal/domain"
	"github.com/Gunvolt24/rmq_pruner/internal/match"
	"github.com/Gunvolt24/rmq_pruner/internal/ports"
	"github.com/Gunvolt24/rmq_pruner/pkg/metrics"
)

// worker — одна единица конкурентного потребления: забирает сообщения,
// прогоняет через matcher, переопубликовывает непопавшие (если включено)
// и отдаёт тег в acknowledger. Инварианты:
//   - слот счётчика резервируется ДО обработки; при исчерпании лимита
//     сообщение возвращается брокеру (nack+requeue) и запускается остановка;
//   - publish всегда завершается раньше, чем тег уходит в ack
//     (publish-then-ack, никогда наоборот).
type worker struct {
	id        int
	ch        ports.QueueChannel
	matcher   *match.Matcher
	acker     *Acker
	counters  *Counters
	queue     string
	republish bool
	// requestStop — сигнал координатору начать DRAINING (исчерпан лимит).
	requestStop func()
	log         ports.Logger
	tracer      trace.Tracer
}

func newWorker(
	id int,
	ch ports.QueueChannel,
	matcher *match.Matcher,
	acker *Acker,
	counters *Counters,
	queue string,
	republish bool,
	requestStop func(),
	log ports.Logger,
) *worker {
	return &worker{
		id:          id,
		ch:          ch,
		matcher:     matcher,
		acker:       acker,
		counters:    counters,
		queue:       queue,
		republish:   republish,
		requestStop: requestStop,
		log:         log,
		// Глобальный провайдер; no-op, если трейсинг не включён.
		tracer: otel.Tracer("rmq-pruner/worker"),
	}
}

// run — основной цикл. Завершается по отмене контекста, по пустой
// очереди (конец потока) или по исчерпанию лимита. Ненулевая ошибка
// фатальна для всего запуска.
func (w *worker) run(ctx context.Context) error {
	for {
		// Граница fetch-wait: здесь воркер замечает отмену.
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, ok, err := w.ch.Get(ctx, w.queue)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Ошибка брокера на fetch фатальна: локальных ретраев нет,
			// повторная доставка — забота брокера.
			return err
		}
		if !ok {
			// Очередь пуста — бэклог выбран, воркер закончил.
			w.log.Infof(ctx, "worker %d: queue %q is empty, stopping", w.id, w.queue)
			return nil
		}
		metrics.MessagesFetched.WithLabelValues(w.queue).Inc()

		if !w.counters.TryAcquire() {
			// Лимит max-messages выбран другим воркером между fetch'ами:
			// сообщение не трогаем — возвращаем брокеру и просим остановку.
			if nerr := w.ch.Nack(msg.Tag, true); nerr != nil {
				w.log.Warnf(ctx, "worker %d: nack over-limit tag=%d: %v", w.id, msg.Tag, nerr)
			}
			metrics.MessagesNacked.WithLabelValues(w.queue).Inc()
			w.requestStop()
			return nil
		}

		if err := w.process(ctx, msg); err != nil {
			return err
		}

		if w.counters.Exhausted() {
			// Это сообщение было последним в бюджете.
			w.requestStop()
			return nil
		}
	}
}

// process — решает судьбу одного сообщения: drop / republish / pass-through.
// Ошибка publish изолирована на сообщении (nack+requeue и продолжаем);
// ошибка сброса ack-батча фатальна.
func (w *worker) process(ctx context.Context, msg *domain.Delivery) error {
	ctx, span := w.tracer.Start(ctx, "pruner.process",
		trace.WithAttributes(
			attribute.String("queue", w.queue),
			attribute.Bool("redelivered", msg.Redelivered),
		))
	defer span.End()

	matched := w.matcher.Evaluate(string(msg.Body))
	span.SetAttributes(attribute.Bool("matched", matched))

	if matched {
		w.counters.MarkMatched()
		metrics.MessagesMatched.WithLabelValues(w.queue).Inc()
	}

	if !matched && w.republish {
		if err := w.ch.Publish(ctx, w.queue, msg); err != nil {
			// Per-message ошибка: сообщение вернётся брокером, запуск живёт.
			// Слот лимита освобождается — сообщение не было обработано.
			w.log.Warnf(ctx, "worker %d: republish tag=%d failed: %v (nack with requeue)", w.id, msg.Tag, err)
			if nerr := w.ch.Nack(msg.Tag, true); nerr != nil {
				w.log.Warnf(ctx, "worker %d: nack tag=%d failed: %v", w.id, msg.Tag, nerr)
			}
			metrics.MessagesNacked.WithLabelValues(w.queue).Inc()
			w.counters.Release()
			return nil
		}
		w.counters.MarkRepublished()
		metrics.MessagesRepublished.WithLabelValues(w.queue).Inc()
	}

	// Publish уже подтверждён каналом — только теперь тег можно отдавать в ack.
	if err := w.acker.Submit(msg.Tag); err != nil {
		return err
	}
	return nil
}
