package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/interpreteya/booking-service/internal/domain"
)

// InterpreterFilter narrows the interpreter directory listing.
type InterpreterFilter struct {
	NameQuery string
	Limit     int
	Offset    int
}

// AccountRepository defines persistence access for platform accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByRut(ctx context.Context, rut string) (*domain.Account, error)
	ListByStatus(ctx context.Context, status domain.AccountStatus, limit int) ([]domain.Account, error)
	ListBlocked(ctx context.Context, limit int) ([]domain.Account, error)
	ListInterpreters(ctx context.Context, filter InterpreterFilter) ([]domain.Account, error)
	AddRating(ctx context.Context, interpreterID string, stars int) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `
        id, display_name, email, password_hash, rut, phone, phone_display, role,
        account_status, approved, blocked, pending_until, night_consent,
        disability_credential, deafness_type, profession, occupation, address, birth_date,
        rating_sum, rating_count, decided_at, decided_by_id, blocked_at, blocked_by_id,
        created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (
            display_name, email, password_hash, rut, phone, phone_display, role,
            account_status, approved, blocked, pending_until, night_consent,
            disability_credential, deafness_type, profession, occupation, address, birth_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.DisplayName,
		account.Email,
		account.PasswordHash,
		account.Rut,
		account.Phone,
		account.PhoneDisplay,
		account.Role,
		account.Status,
		account.Approved,
		account.Blocked,
		account.PendingUntil,
		account.NightConsent,
		account.DisabilityCredential,
		account.DeafnessType,
		account.Profession,
		account.Occupation,
		account.Address,
		account.BirthDate,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET
            display_name=$1, email=$2, password_hash=$3, rut=$4, phone=$5, phone_display=$6,
            account_status=$7, approved=$8, blocked=$9, pending_until=$10, night_consent=$11,
            disability_credential=$12, deafness_type=$13, profession=$14, occupation=$15,
            address=$16, birth_date=$17, decided_at=$18, decided_by_id=$19,
            blocked_at=$20, blocked_by_id=$21, updated_at=NOW()
        WHERE id=$22`

	cmd, err := r.pool.Exec(ctx, query,
		account.DisplayName,
		account.Email,
		account.PasswordHash,
		account.Rut,
		account.Phone,
		account.PhoneDisplay,
		account.Status,
		account.Approved,
		account.Blocked,
		account.PendingUntil,
		account.NightConsent,
		account.DisabilityCredential,
		account.DeafnessType,
		account.Profession,
		account.Occupation,
		account.Address,
		account.BirthDate,
		account.DecidedAt,
		account.DecidedByID,
		account.BlockedAt,
		account.BlockedByID,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.fetchSingle(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.fetchSingle(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email=$1`, email)
}

// GetByRut expects the canonical dotted-dash form the accounts table stores.
func (r *accountRepository) GetByRut(ctx context.Context, rut string) (*domain.Account, error) {
	return r.fetchSingle(ctx, `SELECT `+accountColumns+` FROM accounts WHERE rut=$1`, rut)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := scanAccount(r.pool.QueryRow(ctx, query, arg), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ListByStatus(ctx context.Context, status domain.AccountStatus, limit int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
        FROM accounts WHERE account_status=$1 AND role <> $2
        ORDER BY created_at ASC LIMIT $3`
	rows, err := r.pool.Query(ctx, query, status, domain.RoleManager, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

func (r *accountRepository) ListBlocked(ctx context.Context, limit int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
        FROM accounts WHERE blocked ORDER BY blocked_at DESC NULLS LAST LIMIT $1`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

func (r *accountRepository) ListInterpreters(ctx context.Context, filter InterpreterFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
        FROM accounts
        WHERE role=$1 AND account_status=$2 AND NOT blocked
          AND ($3 = '' OR display_name ILIKE '%' || $3 || '%')
        ORDER BY display_name ASC
        LIMIT $4 OFFSET $5`
	rows, err := r.pool.Query(ctx, query,
		domain.RoleInterpreter,
		domain.AccountStatusApproved,
		filter.NameQuery,
		normalizeLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

// AddRating bumps the interpreter's aggregate counters in one statement so
// concurrent ratings do not lose increments.
func (r *accountRepository) AddRating(ctx context.Context, interpreterID string, stars int) error {
	const query = `
        UPDATE accounts SET rating_sum = rating_sum + $1, rating_count = rating_count + 1,
            updated_at=NOW()
        WHERE id=$2 AND role=$3`
	cmd, err := r.pool.Exec(ctx, query, stars, interpreterID, domain.RoleInterpreter)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&account.PasswordHash,
		&account.Rut,
		&account.Phone,
		&account.PhoneDisplay,
		&account.Role,
		&account.Status,
		&account.Approved,
		&account.Blocked,
		&account.PendingUntil,
		&account.NightConsent,
		&account.DisabilityCredential,
		&account.DeafnessType,
		&account.Profession,
		&account.Occupation,
		&account.Address,
		&account.BirthDate,
		&account.RatingSum,
		&account.RatingCount,
		&account.DecidedAt,
		&account.DecidedByID,
		&account.BlockedAt,
		&account.BlockedByID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
