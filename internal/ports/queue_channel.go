package ports

import (
	"context"

	"github.com/Gunvolt24/rmq_pruner/internal/domain"
)

// QueueChannel — порт к каналу брокера. Единственная точка, через которую
// воркеры и acknowledger общаются с RabbitMQ: забрать сообщение, вернуть,
// переопубликовать, подтвердить. Реализация обязана быть безопасной для
// конкурентных вызовов из нескольких воркеров.
type QueueChannel interface {
	// Get — забирает одно сообщение из очереди.
	// ok=false без ошибки означает, что очередь пуста (конец потока).
	Get(ctx context.Context, queue string) (msg *domain.Delivery, ok bool, err error)

	// Publish — публикует сообщение в ту же очередь через default exchange.
	Publish(ctx context.Context, queue string, msg *domain.Delivery) error

	// Ack — подтверждает доставку по тегу. multiple=true покрывает все теги до указанного.
	Ack(tag uint64, multiple bool) error

	// Nack — возвращает сообщение; requeue=true отдаёт его брокеру на повторную доставку.
	Nack(tag uint64, requeue bool) error

	Close() error
}
