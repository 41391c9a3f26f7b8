package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"
	"waveBackend/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Storage struct {
	pool *pgxpool.Pool
}

type PoolConfig struct {
	MaxConns    int32
	MinConns    int32
	IdleTimeout time.Duration
}

func New(ctx context.Context, connString string, pc PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if pc.MaxConns > 0 {
		config.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		config.MinConns = pc.MinConns
	}
	if pc.IdleTimeout > 0 {
		config.MaxConnIdleTime = pc.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

var migrationsUp = []string{
	"migrations/001_init.up.sql",
	"migrations/002_indexes.up.sql",
}

var migrationsDown = []string{
	"migrations/002_indexes.down.sql",
	"migrations/001_init.down.sql",
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций")

	for _, file := range migrationsUp {
		sql, err := migrationFiles.ReadFile(file)
		if err != nil {
			logger.Error("Repository: Не удалось прочитать миграцию", err)
			return fmt.Errorf("чтение %s: %w", file, err)
		}

		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("Repository: Не удалось применить миграцию", err)
			return fmt.Errorf("применение %s: %w", file, err)
		}
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций")

	for _, file := range migrationsDown {
		sql, err := migrationFiles.ReadFile(file)
		if err != nil {
			logger.Error("Repository: Не удалось прочитать миграцию", err)
			return fmt.Errorf("чтение %s: %w", file, err)
		}

		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("Repository: Не удалось откатить миграцию", err)
			return fmt.Errorf("откат %s: %w", file, err)
		}
	}

	logger.Info("Repository: Миграции откачены")
	return nil
}
