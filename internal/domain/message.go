package domain

// Delivery — одно сообщение, полученное из очереди.
// Tag — идентификатор доставки (нужен для ack/nack),
// Redelivered — признак повторной доставки брокером.
type Delivery struct {
	Body        []byte
	Tag         uint64
	Redelivered bool
	ContentType string
	Headers     map[string]any
}

// Summary — итог одного запуска: сколько обработано, сколько совпало,
// сколько переопубликовано. Dropped — обработанные без переопубликации.
type Summary struct {
	Processed   int64
	Matched     int64
	Republished int64
}

// Dropped — количество сообщений, удалённых из очереди без возврата.
func (s Summary) Dropped() int64 { return s.Processed - s.Republished }
