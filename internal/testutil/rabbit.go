//go:build integration

package testutil

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	testcontainers "github.com/testcontainers/testcontainers-go"
	tcrabbit "github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/Gunvolt24/rmq_pruner/internal/rabbit"
)

// RabbitTC — адрес и учётные данные поднятого в контейнере брокера.
type RabbitTC struct {
	URL    string
	Config rabbit.Config
}

// StartRabbitTC — поднимает RabbitMQ в testcontainers и возвращает
// параметры подключения и функцию остановки.
func StartRabbitTC(ctx context.Context) (*RabbitTC, func(context.Context) error, error) {
	ctr, err := tcrabbit.RunContainer(ctx, testcontainers.WithImage("rabbitmq:3.13-alpine"))
	if err != nil {
		return nil, nil, fmt.Errorf("start rabbitmq container: %w", err)
	}
	stop := func(ctx context.Context) error { return ctr.Terminate(ctx) }

	url, err := ctr.AmqpURL(ctx)
	if err != nil {
		_ = stop(ctx)
		return nil, nil, fmt.Errorf("amqp url: %w", err)
	}

	u, err := amqp.ParseURI(url)
	if err != nil {
		_ = stop(ctx)
		return nil, nil, fmt.Errorf("parse amqp url: %w", err)
	}

	tc := &RabbitTC{
		URL: url,
		Config: rabbit.Config{
			Host:     u.Host,
			Port:     u.Port,
			Vhost:    u.Vhost,
			User:     u.Username,
			Password: u.Password,
		},
	}
	return tc, stop, nil
}

// withChannel — одно короткоживущее соединение на вспомогательную операцию.
func (tc *RabbitTC) withChannel(fn func(ch *amqp.Channel) error) error {
	conn, err := amqp.Dial(tc.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return fn(ch)
}

// DeclareQueue — объявляет durable-очередь.
func (tc *RabbitTC) DeclareQueue(name string) error {
	return tc.withChannel(func(ch *amqp.Channel) error {
		_, err := ch.QueueDeclare(name, true, false, false, false, nil)
		return err
	})
}

// Seed — кладёт сообщения в очередь через default exchange.
func (tc *RabbitTC) Seed(ctx context.Context, queue string, bodies ...string) error {
	return tc.withChannel(func(ch *amqp.Channel) error {
		for _, b := range bodies {
			pub := amqp.Publishing{ContentType: "text/plain", Body: []byte(b)}
			if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
				return err
			}
		}
		return nil
	})
}

// QueueLen — текущая глубина очереди (ready-сообщения, без unacked).
func (tc *RabbitTC) QueueLen(queue string) (int, error) {
	var n int
	err := tc.withChannel(func(ch *amqp.Channel) error {
		q, err := ch.QueueDeclarePassive(queue, true, false, false, false, nil)
		if err != nil {
			return err
		}
		n = q.Messages
		return nil
	})
	return n, err
}
