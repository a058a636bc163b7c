package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payment.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, payroll_id, status, attempt, transfer_date, proof_reference,
	approved_by, approved_at, note, created_at, updated_at
`

func scanPayment(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID, &p.PayrollID, &p.Status, &p.Attempt, &p.TransferDate, &p.ProofReference,
		&p.ApprovedBy, &p.ApprovedAt, &p.Note, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return payment.Payment{}, fmt.Errorf("%w: %s", payment.ErrPaymentNotFound, id)
		}
		return payment.Payment{}, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return p, nil
}

func (r *paymentRepository) GetByPayrollID(ctx context.Context, payrollID string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payroll_id = $1`

	p, err := scanPayment(q.QueryRow(ctx, query, payrollID))
	if err != nil {
		if isNoRows(err) {
			return payment.Payment{}, fmt.Errorf("%w: payroll %s", payment.ErrPaymentNotFound, payrollID)
		}
		return payment.Payment{}, fmt.Errorf("failed to get payment for payroll %s: %w", payrollID, err)
	}
	return p, nil
}

// Upsert implements payment.PaymentRepository.
func (r *paymentRepository) Upsert(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payments (
			id, payroll_id, status, attempt, transfer_date, proof_reference,
			approved_by, approved_at, note, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT ON CONSTRAINT payments_payroll_key DO UPDATE SET
			status = EXCLUDED.status,
			attempt = EXCLUDED.attempt,
			transfer_date = EXCLUDED.transfer_date,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + paymentColumns

	saved, err := scanPayment(q.QueryRow(ctx, query,
		p.ID, p.PayrollID, string(p.Status), p.Attempt, p.TransferDate, p.ProofReference,
		p.ApprovedBy, p.ApprovedAt, p.Note, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to upsert payment: %w", err)
	}
	return saved, nil
}

func (r *paymentRepository) SetProofReference(ctx context.Context, id string, ref string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payments
		SET proof_reference = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + paymentColumns

	p, err := scanPayment(q.QueryRow(ctx, query, id, ref))
	if err != nil {
		if isNoRows(err) {
			return payment.Payment{}, fmt.Errorf("%w: %s", payment.ErrPaymentNotFound, id)
		}
		return payment.Payment{}, fmt.Errorf("failed to set payment proof: %w", err)
	}
	return p, nil
}
