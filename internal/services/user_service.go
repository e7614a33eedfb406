package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashibank/hashi-bank-be/internal/apperr"
	"github.com/hashibank/hashi-bank-be/internal/database"
	"github.com/hashibank/hashi-bank-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByName(ctx context.Context, name string) (models.User, error)
	InitUsers(ctx context.Context) ([]string, error)
}

// UserService provides lookup and seeding of the fixed user list.
type UserService struct {
	db        *database.DB
	seedNames []string
}

// NewUserService creates a new UserService that seeds seedNames on init.
func NewUserService(db *database.DB, seedNames []string) *UserService {
	return &UserService{db: db, seedNames: seedNames}
}

// GetAllUsers returns every user ordered by name.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM users ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetUserByName retrieves a single user by exact name.
func (s *UserService) GetUserByName(ctx context.Context, name string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM users WHERE name = ?", name)
	err := row.Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, fmt.Errorf("get user %q: %w", name, err)
	}
	return user, nil
}

// InitUsers creates each seed user that does not exist yet. It returns the
// seed list whether or not anything was inserted.
func (s *UserService) InitUsers(ctx context.Context) ([]string, error) {
	for _, name := range s.seedNames {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO users (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT (name) DO NOTHING",
			uuid.New().String(), name, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("seed user %q: %w", name, err)
		}
	}

	names := make([]string, len(s.seedNames))
	copy(names, s.seedNames)
	return names, nil
}
