package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/account"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
)

var (
	// ErrAccountNotFound is an expected lookup outcome, not an exception.
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

type AccountsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAccountsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AccountsRepo {
	return &AccountsRepo{pool: pool, prom: prom}
}

func (r *AccountsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// GetByEmail resolves the account plus its role name and the profile row
// matching that role. Email matching is case-insensitive; the folding
// happens inside the store function, not here.
func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	var acct account.Account

	// nullable profile columns, populated per role
	var studentID, credits, teacherID *int

	err := r.observe("accounts.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email, password_hash, role_name, created_at,
			        student_id, credits_available, teacher_id
			 FROM find_account_by_email($1)`,
			email,
		).Scan(
			&acct.ID,
			&acct.Name,
			&acct.Email,
			&acct.PasswordHash,
			&acct.Role,
			&acct.CreatedAt,
			&studentID,
			&credits,
			&teacherID,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, ErrAccountNotFound
		}

		return account.Account{}, err
	}

	// Presence invariant: exactly the profile matching the role is set.
	switch acct.Role {
	case account.RoleStudent:
		if studentID != nil {
			p := &account.StudentProfile{ID: *studentID}
			if credits != nil {
				p.CreditsAvailable = *credits
			}
			acct.Student = p
		}
	case account.RoleTeacher:
		if teacherID != nil {
			acct.Teacher = &account.TeacherProfile{ID: *teacherID}
		}
	}

	return acct, nil
}

// Create delegates persistence to the store, which is the sole enforcer
// of email uniqueness and role referential integrity.
func (r *AccountsRepo) Create(ctx context.Context, name, email, passwordHash string, roleID int) (account.Summary, error) {
	var summary account.Summary

	err := r.observe("accounts.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email, role_name
			 FROM create_account($1, $2, $3, $4)`,
			name, email, passwordHash, roleID,
		).Scan(
			&summary.ID,
			&summary.Name,
			&summary.Email,
			&summary.Role,
		)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return account.Summary{}, ErrEmailTaken
			case "23503":
				return account.Summary{}, ErrUnknownRole
			}
		}
		return account.Summary{}, err
	}

	return summary, nil
}

var ErrUnknownRole = errors.New("role does not exist")
