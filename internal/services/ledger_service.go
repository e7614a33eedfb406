package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashibank/hashi-bank-be/internal/apperr"
	"github.com/hashibank/hashi-bank-be/internal/database"
	"github.com/hashibank/hashi-bank-be/internal/models"
	"github.com/rs/zerolog/log"
)

// LedgerServiceProvider defines the interface for ledger services.
type LedgerServiceProvider interface {
	RecordEntry(ctx context.Context, in models.EntryInput, kind models.EntryKind) (models.Entry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error)
	ListWithdrawals(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error)
	ComputeTotals(ctx context.Context) (models.Totals, error)
}

// EntryNotifier is told about every entry after it is stored.
type EntryNotifier interface {
	NotifyEntryCreated(entry models.Entry)
}

// LedgerService records deposits and withdrawals and sums them up.
type LedgerService struct {
	db       *database.DB
	users    UserServiceProvider
	notifier EntryNotifier
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService. notifier may be nil.
func NewLedgerService(db *database.DB, users UserServiceProvider, notifier EntryNotifier) *LedgerService {
	return &LedgerService{
		db:       db,
		users:    users,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordEntry stores a new ledger entry for the named user. Withdrawals are
// always stored negative, whatever sign the caller sent.
func (s *LedgerService) RecordEntry(ctx context.Context, in models.EntryInput, kind models.EntryKind) (models.Entry, error) {
	if !kind.Valid() {
		return models.Entry{}, fmt.Errorf("unknown entry kind %q", kind)
	}
	if in.UserName == "" || strings.TrimSpace(in.Amount) == "" || in.Month == "" || in.Year == "" {
		return models.Entry{}, apperr.Validation("All fields are required: userName, amount, month, year")
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		return models.Entry{}, err
	}
	if kind == models.KindWithdrawal {
		amount = -math.Abs(amount)
	}
	if amount == 0 {
		amount = 0 // drop the sign of -0
	}

	user, err := s.users.GetUserByName(ctx, in.UserName)
	if err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		ID:        uuid.New().String(),
		Amount:    amount,
		Month:     in.Month,
		Year:      in.Year,
		Kind:      kind,
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: s.now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO deposits (id, amount, month, year, kind, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Amount, entry.Month, entry.Year, string(entry.Kind), entry.UserID, entry.CreatedAt)
	if err != nil {
		return models.Entry{}, fmt.Errorf("insert %s: %w", kind, err)
	}

	log.Info().
		Str("entry_id", entry.ID).
		Str("kind", string(kind)).
		Str("user", user.Name).
		Float64("amount", entry.Amount).
		Msg("Ledger entry recorded")

	if s.notifier != nil {
		s.notifier.NotifyEntryCreated(entry)
	}
	return entry, nil
}

// ListEntries returns matching entries, most recent first.
func (s *LedgerService) ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error) {
	return s.listEntries(ctx, filter, false)
}

// ListWithdrawals is ListEntries restricted to negative amounts.
func (s *LedgerService) ListWithdrawals(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error) {
	return s.listEntries(ctx, filter, true)
}

func (s *LedgerService) listEntries(ctx context.Context, filter models.EntryFilter, negativeOnly bool) ([]models.Entry, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserName != "" {
		where = append(where, "u.name = ?")
		args = append(args, filter.UserName)
	}
	if filter.Month != "" {
		where = append(where, "d.month = ?")
		args = append(args, filter.Month)
	}
	if filter.Year != "" {
		where = append(where, "d.year = ?")
		args = append(args, filter.Year)
	}
	if negativeOnly {
		where = append(where, "d.amount < 0")
	}

	query := `
		SELECT d.id, d.amount, d.month, d.year, d.kind, d.user_id, u.name, d.created_at
		FROM deposits d
		JOIN users u ON u.id = d.user_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY d.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var (
			entry models.Entry
			kind  string
		)
		if err := rows.Scan(&entry.ID, &entry.Amount, &entry.Month, &entry.Year, &kind, &entry.UserID, &entry.UserName, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.Kind = models.EntryKind(kind)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ComputeTotals sums every user's entries. The user list and each user's
// entries are separate reads, so a concurrent write may land in between.
func (s *LedgerService) ComputeTotals(ctx context.Context) (models.Totals, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return models.Totals{}, err
	}

	totals := models.Totals{
		UserTotals: make([]models.UserTotal, 0, len(users)),
		TotalUsers: len(users),
	}
	for _, user := range users {
		ut, err := s.userTotal(ctx, user)
		if err != nil {
			return models.Totals{}, err
		}
		totals.UserTotals = append(totals.UserTotals, ut)
		totals.BankTotal += ut.TotalAmount
	}
	return totals, nil
}

func (s *LedgerService) userTotal(ctx context.Context, user models.User) (models.UserTotal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT amount FROM deposits WHERE user_id = ?", user.ID)
	if err != nil {
		return models.UserTotal{}, fmt.Errorf("load entries for %q: %w", user.Name, err)
	}
	defer rows.Close()

	ut := models.UserTotal{UserName: user.Name}
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return models.UserTotal{}, fmt.Errorf("scan amount: %w", err)
		}
		ut.TotalAmount += amount
		ut.EntryCount++
	}
	return ut, rows.Err()
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.Validation("Amount must be a valid number")
	}
	return v, nil
}
