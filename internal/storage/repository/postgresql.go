// Package repository реализует хранилище данных на основе PostgreSQL
// для портала хостинг-провайдера. Предоставляет методы создания, чтения,
// обновления и удаления услуг, доменов и счетов, выдачу номеров счетов
// из персистентной последовательности и атомарную финализацию счёта.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'invoices'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table invoices missing or query error: %w", err)
	}
	return nil
}

// NextInvoiceSeq возвращает следующее значение последовательности номеров счетов.
// Последовательность базы данных гарантирует уникальность при конкурентных вызовах;
// выданные значения не переиспользуются.
func (s *Storage) NextInvoiceSeq(ctx context.Context) (int64, error) {
	const op = "storage.NextInvoiceSeq"
	var n int64
	err := s.DB.QueryRowContext(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
