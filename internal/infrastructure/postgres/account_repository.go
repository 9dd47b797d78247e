package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, email, password_hash, name, phone, role, status, rejection_reason,
	approved_at, approved_by, email_verified, last_login_at, created_at, updated_at`

func scanAccount(row rowScanner) (*entity.Account, error) {
	var a entity.Account
	var role, status string
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &role, &status, &a.RejectionReason,
		&a.ApprovedAt, &a.ApprovedBy, &a.EmailVerified, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Role = entity.Role(role)
	a.Status = entity.Status(status)
	return &a, nil
}

// Create persiste una nueva cuenta. Email duplicado -> domain.ErrEmailAlreadyExists.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Phone, string(a.Role), string(a.Status), a.RejectionReason,
		a.ApprovedAt, a.ApprovedBy, a.EmailVerified, a.LastLoginAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByEmail obtiene una cuenta por email (ya normalizado a minúsculas).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// List lista cuentas filtradas, más recientes primero, con el total sin paginar.
func (r *AccountRepo) List(ctx context.Context, f repository.AccountFilter, p repository.Page) ([]*entity.Account, int, error) {
	var c conds
	if f.Role != "" {
		c.add("role = ?", string(f.Role))
	}
	if f.Status != "" {
		c.add("status = ?", string(f.Status))
	}
	if f.Search != "" {
		c.add(`(name ILIKE ? OR email ILIKE ?)`, likePattern(f.Search))
	}
	if f.IsActive != nil {
		if *f.IsActive {
			c.add("status <> ?", string(entity.StatusDeactivated))
		} else {
			c.add("status = ?", string(entity.StatusDeactivated))
		}
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM accounts`+c.where(), c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}
	limit, args := c.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+accountColumns+` FROM accounts`+c.where()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// UpdateContact actualiza nombre y teléfono.
func (r *AccountRepo) UpdateContact(ctx context.Context, a *entity.Account) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE accounts SET name = $2, phone = $3, updated_at = $4 WHERE id = $1`,
		a.ID, a.Name, a.Phone, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// CompareAndSwapStatus UPDATE condicionado al estado actual; la fila bloqueada por un
// UPDATE concurrente se reevalúa al liberarse, así que solo un llamador gana.
func (r *AccountRepo) CompareAndSwapStatus(ctx context.Context, id string, from entity.Status, c repository.StatusChange) (bool, error) {
	var approvedAt *time.Time
	if c.ApprovedBy != "" {
		at := c.At
		approvedAt = &at
	}
	query := `
		UPDATE accounts SET
			status = $3,
			rejection_reason = CASE WHEN $3 = 'rejected' THEN $4 WHEN $3 = 'deactivated' THEN rejection_reason ELSE '' END,
			approved_at = COALESCE($5, approved_at),
			approved_by = CASE WHEN $6 = '' THEN approved_by ELSE $6 END,
			updated_at = $7
		WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(ctx, query, id, string(from), string(c.To), c.RejectionReason, approvedAt, c.ApprovedBy, c.At)
	if err != nil {
		return false, fmt.Errorf("swap account status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// TouchLastLogin registra el último inicio de sesión.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE accounts SET last_login_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// CountByStatus cuenta cuentas por estado.
func (r *AccountRepo) CountByStatus(ctx context.Context) (map[entity.Status]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM accounts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count accounts by status: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.Status]int)
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[entity.Status(s)] = n
	}
	return out, rows.Err()
}

// CountByRole cuenta cuentas por rol.
func (r *AccountRepo) CountByRole(ctx context.Context) (map[entity.Role]int, error) {
	rows, err := r.q.Query(ctx, `SELECT role, COUNT(*) FROM accounts GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count accounts by role: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		out[entity.Role(role)] = n
	}
	return out, rows.Err()
}
