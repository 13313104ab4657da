package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askwhyharsh/silverlink/internal/storage"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type AccountStore interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Delete(ctx context.Context, id string) error
}

type SQLAccountStore struct {
	db *storage.DB
}

var _ AccountStore = (*SQLAccountStore)(nil)

func NewSQLAccountStore(db *storage.DB) *SQLAccountStore {
	return &SQLAccountStore{db: db}
}

func (s *SQLAccountStore) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, storage.FormatTime(a.CreatedAt))
	if storage.IsUniqueViolation(err) {
		return apperrors.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *SQLAccountStore) Get(ctx context.Context, id string) (*Account, error) {
	return s.getBy(ctx, "id", id)
}

func (s *SQLAccountStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.getBy(ctx, "email", email)
}

func (s *SQLAccountStore) getBy(ctx context.Context, column, value string) (*Account, error) {
	query := fmt.Sprintf(`SELECT id, email, password_hash, created_at FROM accounts WHERE %s = ?`, column)

	var (
		a         Account
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, value).Scan(&a.ID, &a.Email, &a.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	return &a, nil
}

func (s *SQLAccountStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}
