package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/domain"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `local_id, invoice_id, user_id, target_listing_id, amount, status, purpose, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	var p domain.Payment
	var amount string
	err := row.Scan(&p.LocalID, &p.InvoiceID, &p.UserID, &p.TargetListingID,
		&amount, &p.Status, &p.Purpose, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (local_id, invoice_id, user_id, target_listing_id, amount, status, purpose)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		p.LocalID, p.InvoiceID, p.UserID, p.TargetListingID,
		p.Amount.StringFixed(2), p.Status, p.Purpose)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) ListPendingSince(ctx context.Context, cutoff time.Time) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE status = 'pending' AND created_at >= $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetStatusIf is the idempotence guard: a payment already out of the expected
// state is left untouched and reported as false.
func (r *paymentRepository) SetStatusIf(ctx context.Context, invoiceID string, from, to domain.PaymentState) (bool, error) {
	query := `UPDATE payments SET status = $3, updated_at = NOW() WHERE invoice_id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, query, invoiceID, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
