package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/internal/domain/repository"
)

const txnColumns = `
	t.id, t.amount, t.description, t.status, t.type,
	t.sender_id, t.receiver_id, COALESCE(t.request_id, ''), t.created_at,
	s.name, s.email, r.name, r.email`

const txnJoins = `
	FROM transactions t
	JOIN users s ON s.id = t.sender_id
	JOIN users r ON r.id = t.receiver_id`

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	var status, typ string
	if err := row.Scan(&t.ID, &t.Amount, &t.Description, &status, &typ,
		&t.SenderID, &t.ReceiverID, &t.RequestID, &t.CreatedAt,
		&t.Sender.Name, &t.Sender.Email, &t.Receiver.Name, &t.Receiver.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	t.Status = entity.TransactionStatus(status)
	t.Type = entity.TransactionType(typ)
	return t, nil
}

// Transfer applies the debit, the credit and the record insert as one
// serializable database transaction. The caller's context carries the
// commit deadline; when it expires the outcome is ambiguous and is
// reported as ErrCommitTimeout, never as a definite failure.
//
// The sender's balance is re-checked here via the conditional debit:
// the service's earlier read is advisory only, this is the check that
// holds under concurrency.
func (r *TransactionRepository) Transfer(ctx context.Context, p repository.TransferParams) (*entity.Transaction, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, classifyCommitErr(ctx, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE users
		SET balance = balance - $1, updated_at = now()
		WHERE id = $2 AND balance >= $1
	`, p.Amount, p.SenderID)
	if err != nil {
		return nil, classifyCommitErr(ctx, err)
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2
	`, p.Amount, p.ReceiverID); err != nil {
		return nil, classifyCommitErr(ctx, err)
	}

	var id string
	if err := tx.QueryRow(ctx, `
		INSERT INTO transactions (amount, description, status, type, sender_id, receiver_id, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id
	`, p.Amount, p.Description, string(entity.StatusCompleted), string(entity.TypePayment),
		p.SenderID, p.ReceiverID, p.RequestID).Scan(&id); err != nil {
		return nil, classifyCommitErr(ctx, err)
	}

	t, err := scanTransaction(tx.QueryRow(ctx, `SELECT`+txnColumns+txnJoins+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, classifyCommitErr(ctx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyCommitErr(ctx, err)
	}
	return t, nil
}

// classifyCommitErr maps a low-level commit failure onto the transfer
// error taxonomy: deadline -> timeout (ambiguous), serialization failure
// or deadlock -> conflict (retryable), duplicate request id -> duplicate.
func classifyCommitErr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return repository.ErrCommitTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return repository.ErrCommitConflict
		case "23505": // unique_violation: only request_id is insertable-unique here
			return repository.ErrDuplicateRequest
		case "23514": // check_violation on users.balance
			return repository.ErrInsufficientBalance
		}
	}
	return err
}

func (r *TransactionRepository) ListForUser(ctx context.Context, userID string) ([]entity.Transaction, error) {
	return r.query(ctx, `
		SELECT`+txnColumns+txnJoins+`
		WHERE t.sender_id = $1 OR t.receiver_id = $1
		ORDER BY t.created_at DESC
	`, userID)
}

func (r *TransactionRepository) RecentForUser(ctx context.Context, userID string, limit int) (sent, received []entity.Transaction, err error) {
	sent, err = r.query(ctx, `
		SELECT`+txnColumns+txnJoins+`
		WHERE t.sender_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	received, err = r.query(ctx, `
		SELECT`+txnColumns+txnJoins+`
		WHERE t.receiver_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	return sent, received, nil
}

func (r *TransactionRepository) CountForUser(ctx context.Context, userID string) (sent, received int64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT count(*) FILTER (WHERE sender_id = $1),
		       count(*) FILTER (WHERE receiver_id = $1)
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
	`, userID).Scan(&sent, &received)
	return sent, received, err
}

func (r *TransactionRepository) Stats(ctx context.Context) (count int64, completedSum float64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(amount) FILTER (WHERE status = $1), 0)
		FROM transactions
	`, string(entity.StatusCompleted)).Scan(&count, &completedSum)
	return count, completedSum, err
}

func (r *TransactionRepository) ListAll(ctx context.Context) ([]entity.Transaction, error) {
	return r.query(ctx, `SELECT`+txnColumns+txnJoins+` ORDER BY t.created_at DESC`)
}

func (r *TransactionRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Transaction, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
