package ports

import (
	"context"

	"github.com/Gunvolt24/rmq_pruner/internal/domain"
)

// Runner — порт исполнителя одного запуска (координатор).
type Runner interface {
	Run(ctx context.Context) (domain.Summary, error)
}
