package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmq_messages_fetched_total",
			Help: "Number of messages fetched from the queue",
		},
		[]string{"queue"},
	)
	MessagesMatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmq_messages_matched_total",
			Help: "Number of messages that matched the filter rules",
		},
		[]string{"queue"},
	)
	MessagesRepublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmq_messages_republished_total",
			Help: "Number of non-matching messages republished back to the queue",
		},
		[]string{"queue"},
	)
	MessagesNacked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmq_messages_nacked_total",
			Help: "Number of messages returned to the queue (nack with requeue)",
		},
		[]string{"queue"},
	)
)

var (
	AcksFlushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmq_acks_flushed_total",
			Help: "Number of delivery tags acknowledged",
		},
		[]string{"queue"},
	)
	AckBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmq_ack_batches_total",
			Help: "Number of ack batch flushes",
		},
		[]string{"queue"},
	)
	AckBufferSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rmq_ack_buffer_size",
			Help: "Number of delivery tags currently awaiting acknowledgment",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		MessagesFetched, MessagesMatched, MessagesRepublished, MessagesNacked,
		AcksFlushed, AckBatches, AckBufferSize,
	)
}
