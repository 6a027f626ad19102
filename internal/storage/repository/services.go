package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// CreateService вставляет новую запись хостинговой услуги.
func (s *Storage) CreateService(ctx context.Context, svc models.Service) error {
	const op = "storage.CreateService"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO services (id, user_uid, plan_name, price, panel_type,
			      plan_status, created_at, start_date, next_renewal_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		svc.ID, svc.UserUID, svc.PlanName, svc.Price, svc.PanelType,
		svc.PlanStatus, svc.CreatedAt, svc.StartDate, svc.NextRenewalDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadService возвращает данные услуги по её ID.
func (s *Storage) ReadService(ctx context.Context, id string) (*models.Service, error) {
	const op = "storage.ReadService"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_name, price, panel_type, plan_status,
				created_at, start_date, next_renewal_date
			  FROM services WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Service
	if err := row.Scan(&result.ID, &result.UserUID, &result.PlanName, &result.Price,
		&result.PanelType, &result.PlanStatus, &result.CreatedAt,
		&result.StartDate, &result.NextRenewalDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateService обновляет данные услуги по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateService(ctx context.Context, svc models.Service, id string) (int, error) {
	const op = "storage.UpdateService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE services
			  SET plan_name = $1, price = $2, panel_type = $3, plan_status = $4,
			      start_date = $5, next_renewal_date = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		svc.PlanName, svc.Price, svc.PanelType, svc.PlanStatus,
		svc.StartDate, svc.NextRenewalDate, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveService удаляет услугу по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveService(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM services WHERE id = $1`
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

// ListServices возвращает список услуг пользователя с пагинацией.
func (s *Storage) ListServices(ctx context.Context, userUID string, limit, offset int) ([]*models.Service, error) {
	const op = "storage.ListServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_name, price, panel_type, plan_status,
				created_at, start_date, next_renewal_date
			  FROM services
			  WHERE user_uid = $1
			  ORDER BY created_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Service
	for rows.Next() {
		var item models.Service
		if err := rows.Scan(&item.ID, &item.UserUID, &item.PlanName, &item.Price,
			&item.PanelType, &item.PlanStatus, &item.CreatedAt,
			&item.StartDate, &item.NextRenewalDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllServices возвращает список всех услуг с пагинацией.
func (s *Storage) ListAllServices(ctx context.Context, limit, offset int) ([]*models.Service, error) {
	const op = "storage.ListAllServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_name, price, panel_type, plan_status,
				created_at, start_date, next_renewal_date
			  FROM services
			  ORDER BY created_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Service
	for rows.Next() {
		var item models.Service
		if err := rows.Scan(&item.ID, &item.UserUID, &item.PlanName, &item.Price,
			&item.PanelType, &item.PlanStatus, &item.CreatedAt,
			&item.StartDate, &item.NextRenewalDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountOpenInvoicesForService возвращает число нефинализированных счетов,
// ссылающихся на услугу. Используется мягким ограничением удаления.
func (s *Storage) CountOpenInvoicesForService(ctx context.Context, serviceID string) (int, error) {
	const op = "storage.CountOpenInvoicesForService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE service_id = $1 AND is_final = FALSE`,
		serviceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
