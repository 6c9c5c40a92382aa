package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertByEmail inserts the user or, when the email is already
	// registered, refreshes the provider-supplied profile fields. The
	// stored role is never touched; roles are assigned externally.
	UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, email_verified, image, hashed_password, role, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var hashedPassword sql.NullString
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.EmailVerified, &user.Image,
		&hashedPassword, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = hashedPassword.String
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, email_verified, image, hashed_password, role)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var hashedPassword sql.NullString
	if user.HashedPassword != "" {
		hashedPassword = sql.NullString{String: user.HashedPassword, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.EmailVerified, user.Image, hashedPassword, user.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error) {
	query := `INSERT INTO users (id, username, email, email_verified, image, role)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (email) DO UPDATE SET
	              username = EXCLUDED.username,
	              email_verified = EXCLUDED.email_verified,
	              image = EXCLUDED.image,
	              updated_at = CURRENT_TIMESTAMP
	          RETURNING ` + userColumns
	saved, err := scanUser(r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.EmailVerified, user.Image, user.Role))
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.UpsertByEmail: %w", err)
	}
	return saved, nil
}
