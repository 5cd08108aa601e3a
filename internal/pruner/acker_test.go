package pruner

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/rmq_pruner/internal/ports/mocks"
)

// Подтверждаем каждый тег отдельным basic.ack ровно при достижении порога.
func TestAcker_FlushesAtBatchSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := mocks.NewMockQueueChannel(ctrl)

	a := NewAcker(ch, "q", 3)

	// Первые два submit'а ничего не подтверждают.
	if err := a.Submit(1); err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if err := a.Submit(2); err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if got := a.Pending(); got != 2 {
		t.Fatalf("pending before flush: got=%d want=2", got)
	}

	// Третий добивает батч: три отдельных ack, multiple=false.
	gomock.InOrder(
		ch.EXPECT().Ack(uint64(1), false).Return(nil),
		ch.EXPECT().Ack(uint64(2), false).Return(nil),
		ch.EXPECT().Ack(uint64(3), false).Return(nil),
	)
	if err := a.Submit(3); err != nil {
		t.Fatalf("submit 3: %v", err)
	}
	if got := a.Pending(); got != 0 {
		t.Fatalf("pending after flush: got=%d want=0", got)
	}
}

// Каждый отправленный тег подтверждается ровно один раз:
// батчи по порогу плюс финальный сброс остатка.
func TestAcker_DrainFlushesRemainder_ExactlyOnceEach(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := mocks.NewMockQueueChannel(ctrl)

	a := NewAcker(ch, "q", 2)

	acked := map[uint64]int{}
	ch.EXPECT().Ack(gomock.Any(), false).DoAndReturn(func(tag uint64, _ bool) error {
		acked[tag]++
		return nil
	}).Times(5)

	for tag := uint64(1); tag <= 5; tag++ {
		if err := a.Submit(tag); err != nil {
			t.Fatalf("submit %d: %v", tag, err)
		}
	}
	// 1..4 ушли двумя батчами, 5 ждёт дренажа.
	if got := a.Pending(); got != 1 {
		t.Fatalf("pending before drain: got=%d want=1", got)
	}

	if err := a.DrainAndFlush(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	for tag := uint64(1); tag <= 5; tag++ {
		if acked[tag] != 1 {
			t.Fatalf("tag %d acked %d times, want exactly 1", tag, acked[tag])
		}
	}
}

// Повторный дренаж после успешного сброса — no-op, двойных ack нет.
func TestAcker_DrainAfterFlush_IsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := mocks.NewMockQueueChannel(ctrl)

	a := NewAcker(ch, "q", 1)

	ch.EXPECT().Ack(uint64(7), false).Return(nil)
	if err := a.Submit(7); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Никаких новых EXPECT: любой лишний Ack уронит тест как unexpected call.
	if err := a.DrainAndFlush(); err != nil {
		t.Fatalf("drain on empty buffer: %v", err)
	}
}

// Ошибка брокера при сбросе: буфер сохраняется целиком, частичной очистки нет.
func TestAcker_FailedFlushKeepsBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := mocks.NewMockQueueChannel(ctrl)

	a := NewAcker(ch, "q", 2)

	brokerErr := errors.New("channel closed")
	gomock.InOrder(
		ch.EXPECT().Ack(uint64(1), false).Return(nil),
		ch.EXPECT().Ack(uint64(2), false).Return(brokerErr),
	)

	if err := a.Submit(1); err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	err := a.Submit(2)
	if err == nil || !errors.Is(err, brokerErr) {
		t.Fatalf("want broker error from flush, got %v", err)
	}

	if got := a.Pending(); got != 2 {
		t.Fatalf("pending after failed flush: got=%d want=2 (no partial clear)", got)
	}
}

func TestAcker_BatchSizeClampedToOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := mocks.NewMockQueueChannel(ctrl)

	a := NewAcker(ch, "q", 0)

	ch.EXPECT().Ack(uint64(1), false).Return(nil)
	if err := a.Submit(1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := a.Pending(); got != 0 {
		t.Fatalf("pending: got=%d want=0", got)
	}
}
