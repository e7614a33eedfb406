package services

import (
	"context"
	"fmt"

	"github.com/hashibank/hashi-bank-be/internal/apperr"
	"github.com/hashibank/hashi-bank-be/internal/database"
	"github.com/hashibank/hashi-bank-be/internal/models"
)

// PinServiceProvider defines the interface for the shared PIN gate.
type PinServiceProvider interface {
	VerifyPin(ctx context.Context, pin string) (models.PinResult, error)
}

// PinService checks submitted PINs against the settings row.
type PinService struct {
	db *database.DB
}

// NewPinService creates a new PinService.
func NewPinService(db *database.DB) *PinService {
	return &PinService{db: db}
}

// VerifyPin compares pin with the stored PIN. When no PIN is stored yet the
// submitted one is adopted. The insert-if-absent makes concurrent first calls
// agree on a single winner; every other caller falls through to comparison.
func (s *PinService) VerifyPin(ctx context.Context, pin string) (models.PinResult, error) {
	if pin == "" {
		return models.PinResult{}, apperr.Validation("PIN is required")
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (id, pin) VALUES (1, ?) ON CONFLICT (id) DO NOTHING", pin)
	if err != nil {
		return models.PinResult{}, fmt.Errorf("bootstrap pin: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return models.PinResult{}, fmt.Errorf("bootstrap pin: %w", err)
	}
	if inserted == 1 {
		return models.PinResult{Bootstrapped: true, Message: "PIN set successfully"}, nil
	}

	var stored string
	if err := s.db.QueryRowContext(ctx, "SELECT pin FROM settings WHERE id = 1").Scan(&stored); err != nil {
		return models.PinResult{}, fmt.Errorf("load pin: %w", err)
	}

	if stored != pin {
		return models.PinResult{}, apperr.Unauthorized("Invalid PIN")
	}
	return models.PinResult{Message: "PIN verified successfully"}, nil
}
