package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/config"
	"github.com/Freeeeeet/lessonmarket/internal/repository"
	"github.com/Freeeeeet/lessonmarket/internal/repository/base"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// NewPool подключается к Postgres и проверяет соединение
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// NewRedis подключается к Redis. Пустой адрес - кеш выключен, клиент nil.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// TxRunner выполняет функции сервисов в транзакции пула
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// InTx открывает транзакцию и отдаёт fn репозитории, привязанные к ней
func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context, repos service.Repos) error) error {
	return base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, service.Repos{
			Lessons:  repository.NewLessonRepository(tx),
			Slots:    repository.NewSlotRepository(tx),
			Bookings: repository.NewBookingRepository(tx),
		})
	})
}
