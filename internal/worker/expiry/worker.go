package expiry

import (
	"context"
	"time"
)

const defaultInterval = 30 * time.Second

// Expirer отменяет бронирования с истёкшим окном оплаты
type Expirer interface {
	ExpirePending(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически освобождает слоты неоплаченных бронирований
type Worker struct {
	expirer  Expirer
	interval time.Duration
	logger   Logger
}

// NewWorker создаёт воркер. interval <= 0 заменяется на 30s
func NewWorker(expirer Expirer, interval time.Duration, logger Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		expirer:  expirer,
		interval: interval,
		logger:   logger,
	}
}

// Run блокируется до отмены ctx. Первый проход выполняется сразу.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("expiry worker started, interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	if _, err := w.expirer.ExpirePending(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("expiry worker: sweep failed: %v", err)
	}
}
