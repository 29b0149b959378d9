package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	defaultMaxAttempts     = 3
	defaultInitialInterval = 20 * time.Millisecond
)

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit ошибка фиксации транзакции
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrSerialization попытки повторить сериализуемую транзакцию исчерпаны
	ErrSerialization = errors.New("txmanager: serialization failure, retries exhausted")
)

// Beginner открывает транзакции (реализуется *dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// RetryObserver получает уведомление о каждом повторе транзакции
type RetryObserver interface {
	IncTxRetry()
}

// Manager выполняет функции в транзакции, передавая её через контекст
type Manager struct {
	db              Beginner
	maxAttempts     uint
	initialInterval time.Duration
	observer        RetryObserver
}

type Option func(*Manager)

// WithMaxAttempts максимальное число попыток сериализуемой транзакции (включая первую)
func WithMaxAttempts(n uint) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithInitialInterval начальная пауза перед повтором
func WithInitialInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.initialInterval = d
		}
	}
}

func WithRetryObserver(o RetryObserver) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

func New(db Beginner, opts ...Option) *Manager {
	m := &Manager{
		db:              db,
		maxAttempts:     defaultMaxAttempts,
		initialInterval: defaultInitialInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При serialization_failure / deadlock вся функция выполняется заново
// с экспоненциальной паузой, поэтому fn должна быть идемпотентной до коммита.
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	attempt := 0
	operation := func() (struct{}, error) {
		attempt++
		if attempt > 1 && m.observer != nil {
			m.observer.IncTxRetry()
		}

		err := m.run(ctx, opts, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if IsSerializationFailure(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = m.initialInterval

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(m.maxAttempts),
	)
	if err != nil && IsSerializationFailure(err) {
		return fmt.Errorf("%w: after %d attempts: %w", ErrSerialization, attempt, err)
	}
	return err
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}

	return nil
}

// IsSerializationFailure true для ошибок PostgreSQL 40001 и 40P01 в цепочке err
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}
