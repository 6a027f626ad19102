package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// CreateDomain вставляет новую запись домена.
func (s *Storage) CreateDomain(ctx context.Context, d models.Domain) error {
	const op = "storage.CreateDomain"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO domains (id, service_id, user_uid, name, purchased_price,
			      renewal_price, start_date, next_renewal_date, domain_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		d.ID, d.ServiceID, d.UserUID, d.Name, d.PurchasedPrice,
		d.RenewalPrice, d.StartDate, d.NextRenewalDate, d.DomainStatus)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadDomain возвращает данные домена по его ID.
func (s *Storage) ReadDomain(ctx context.Context, id string) (*models.Domain, error) {
	const op = "storage.ReadDomain"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, service_id, user_uid, name, purchased_price, renewal_price,
				start_date, next_renewal_date, domain_status
			  FROM domains WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Domain
	if err := row.Scan(&result.ID, &result.ServiceID, &result.UserUID, &result.Name,
		&result.PurchasedPrice, &result.RenewalPrice, &result.StartDate,
		&result.NextRenewalDate, &result.DomainStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDomainNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateDomain обновляет данные домена по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdateDomain(ctx context.Context, d models.Domain, id string) (int, error) {
	const op = "storage.UpdateDomain"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE domains
			  SET name = $1, purchased_price = $2, renewal_price = $3,
			      start_date = $4, next_renewal_date = $5, domain_status = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		d.Name, d.PurchasedPrice, d.RenewalPrice,
		d.StartDate, d.NextRenewalDate, d.DomainStatus, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveDomain удаляет домен по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveDomain(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveDomain"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM domains WHERE id = $1`
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

// ListDomains возвращает список доменов пользователя с пагинацией.
func (s *Storage) ListDomains(ctx context.Context, userUID string, limit, offset int) ([]*models.Domain, error) {
	const op = "storage.ListDomains"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, service_id, user_uid, name, purchased_price, renewal_price,
				start_date, next_renewal_date, domain_status
			  FROM domains
			  WHERE user_uid = $1
			  ORDER BY start_date
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Domain
	for rows.Next() {
		var item models.Domain
		if err := rows.Scan(&item.ID, &item.ServiceID, &item.UserUID, &item.Name,
			&item.PurchasedPrice, &item.RenewalPrice, &item.StartDate,
			&item.NextRenewalDate, &item.DomainStatus); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllDomains возвращает список всех доменов с пагинацией.
func (s *Storage) ListAllDomains(ctx context.Context, limit, offset int) ([]*models.Domain, error) {
	const op = "storage.ListAllDomains"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, service_id, user_uid, name, purchased_price, renewal_price,
				start_date, next_renewal_date, domain_status
			  FROM domains
			  ORDER BY start_date
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Domain
	for rows.Next() {
		var item models.Domain
		if err := rows.Scan(&item.ID, &item.ServiceID, &item.UserUID, &item.Name,
			&item.PurchasedPrice, &item.RenewalPrice, &item.StartDate,
			&item.NextRenewalDate, &item.DomainStatus); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
