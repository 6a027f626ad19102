package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// CreateInvoice вставляет новую запись счёта.
// Вызывается после того, как бизнес-логика прошла все проверки:
// либо запись появляется целиком, либо не появляется вовсе.
func (s *Storage) CreateInvoice(ctx context.Context, inv models.Invoice) error {
	const op = "storage.CreateInvoice"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO invoices (id, user_uid, service_id, domain_id, invoice_number,
			      amount, status, is_final, created_at, due_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.DB.ExecContext(ctx, query,
		inv.ID, inv.UserUID, inv.ServiceID, inv.DomainID, inv.InvoiceNumber,
		inv.Amount, inv.Status, inv.IsFinal, inv.CreatedAt, inv.DueDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadInvoice возвращает данные счёта по его ID.
func (s *Storage) ReadInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	const op = "storage.ReadInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_id, domain_id, invoice_number, amount,
				status, is_final, created_at, due_date
			  FROM invoices WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Invoice
	if err := row.Scan(&result.ID, &result.UserUID, &result.ServiceID, &result.DomainID,
		&result.InvoiceNumber, &result.Amount, &result.Status, &result.IsFinal,
		&result.CreatedAt, &result.DueDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvoiceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateInvoice обновляет сумму и срок оплаты нефинализированного счёта.
// Возвращает количество изменённых строк: 0 означает, что счёт
// не существует или уже финализирован — различие выясняет вызывающий.
func (s *Storage) UpdateInvoice(ctx context.Context, inv models.Invoice, id string) (int, error) {
	const op = "storage.UpdateInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices
			  SET amount = $1, due_date = $2
			  WHERE id = $3 AND is_final = FALSE`
	result, err := s.DB.ExecContext(ctx, query, inv.Amount, inv.DueDate, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveInvoice удаляет нефинализированный счёт по ID.
// Финализированные счета условие WHERE не затрагивает никогда.
func (s *Storage) RemoveInvoice(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM invoices WHERE id = $1 AND is_final = FALSE`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetInvoiceStatus переводит нефинализированный счёт в новый статус.
func (s *Storage) SetInvoiceStatus(ctx context.Context, id, status string) (int, error) {
	const op = "storage.SetInvoiceStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices SET status = $1 WHERE id = $2 AND is_final = FALSE`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FinalizeInvoice атомарно финализирует счёт: статус становится paid,
// is_final — TRUE. Сравнение в WHERE гарантирует ровно одного победителя
// при конкурирующих запросах финализации.
func (s *Storage) FinalizeInvoice(ctx context.Context, id string) (int, error) {
	const op = "storage.FinalizeInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices
			  SET status = $1, is_final = TRUE
			  WHERE id = $2 AND is_final = FALSE`
	result, err := s.DB.ExecContext(ctx, query, models.InvoiceStatusPaid, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListInvoices возвращает список счетов пользователя с пагинацией.
func (s *Storage) ListInvoices(ctx context.Context, userUID string, limit, offset int) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_id, domain_id, invoice_number, amount,
				status, is_final, created_at, due_date
			  FROM invoices
			  WHERE user_uid = $1
			  ORDER BY invoice_number
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		var item models.Invoice
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ServiceID, &item.DomainID,
			&item.InvoiceNumber, &item.Amount, &item.Status, &item.IsFinal,
			&item.CreatedAt, &item.DueDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllInvoices возвращает список всех счетов с пагинацией.
func (s *Storage) ListAllInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	const op = "storage.ListAllInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_id, domain_id, invoice_number, amount,
				status, is_final, created_at, due_date
			  FROM invoices
			  ORDER BY invoice_number
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		var item models.Invoice
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ServiceID, &item.DomainID,
			&item.InvoiceNumber, &item.Amount, &item.Status, &item.IsFinal,
			&item.CreatedAt, &item.DueDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
