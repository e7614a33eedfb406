package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hashibank/hashi-bank-be/internal/apperr"
	"github.com/hashibank/hashi-bank-be/internal/database"
	"github.com/hashibank/hashi-bank-be/internal/database/databasetest"
	"github.com/hashibank/hashi-bank-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	entries []models.Entry
}

func (n *recordingNotifier) NotifyEntryCreated(entry models.Entry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, entry)
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newLedger(t *testing.T, names ...string) (*LedgerService, *UserService, *recordingNotifier, *database.DB) {
	t.Helper()
	db := databasetest.New(t)
	users := NewUserService(db, names)
	_, err := users.InitUsers(context.Background())
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	ledger := NewLedgerService(db, users, notifier)
	ledger.now = tickingClock()
	return ledger, users, notifier, db
}

func TestVerifyPinBootstrap(t *testing.T) {
	ctx := context.Background()
	svc := NewPinService(databasetest.New(t))

	res, err := svc.VerifyPin(ctx, "9999")
	require.NoError(t, err)
	assert.True(t, res.Bootstrapped)
	assert.Equal(t, "PIN set successfully", res.Message)

	res, err = svc.VerifyPin(ctx, "9999")
	require.NoError(t, err)
	assert.False(t, res.Bootstrapped)
	assert.Equal(t, "PIN verified successfully", res.Message)

	_, err = svc.VerifyPin(ctx, "0000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	assert.EqualError(t, err, "Invalid PIN")
}

func TestVerifyPinRequired(t *testing.T) {
	svc := NewPinService(databasetest.New(t))

	_, err := svc.VerifyPin(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.EqualError(t, err, "PIN is required")
}

func TestVerifyPinConcurrentBootstrapHasOneWinner(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)
	svc := NewPinService(db)

	pins := []string{"1111", "2222", "3333", "4444"}
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		bootstrapped int
	)
	for _, pin := range pins {
		wg.Add(1)
		go func(pin string) {
			defer wg.Done()
			res, err := svc.VerifyPin(ctx, pin)
			if err == nil && res.Bootstrapped {
				mu.Lock()
				bootstrapped++
				mu.Unlock()
			}
		}(pin)
	}
	wg.Wait()

	assert.Equal(t, 1, bootstrapped)

	var rows int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestInitUsersIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(databasetest.New(t), []string{"Shitu", "Habib"})

	names, err := users.InitUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shitu", "Habib"}, names)

	_, err = users.InitUsers(ctx)
	require.NoError(t, err)

	all, err := users.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Habib", all[0].Name, "sorted by name")
	assert.Equal(t, "Shitu", all[1].Name)
	assert.NotEmpty(t, all[0].ID)
}

func TestGetUserByNameNotFound(t *testing.T) {
	users := NewUserService(databasetest.New(t), nil)

	_, err := users.GetUserByName(context.Background(), "Nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRecordEntrySigns(t *testing.T) {
	ctx := context.Background()
	ledger, _, notifier, _ := newLedger(t, "A")

	tests := []struct {
		name   string
		amount string
		kind   models.EntryKind
		want   float64
	}{
		{name: "deposit keeps sign", amount: "100", kind: models.KindDeposit, want: 100},
		{name: "deposit accepts decimals", amount: " 12.5 ", kind: models.KindDeposit, want: 12.5},
		{name: "withdrawal forced negative", amount: "30", kind: models.KindWithdrawal, want: -30},
		{name: "negative withdrawal stays negative", amount: "-30", kind: models.KindWithdrawal, want: -30},
		{name: "zero withdrawal", amount: "0", kind: models.KindWithdrawal, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ledger.RecordEntry(ctx, models.EntryInput{UserName: "A", Amount: tt.amount, Month: "July", Year: "2024"}, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entry.Amount)
			assert.Equal(t, tt.kind, entry.Kind)
			assert.Equal(t, "A", entry.UserName)
			assert.NotEmpty(t, entry.ID)
		})
	}

	assert.Len(t, notifier.entries, len(tests))
}

func TestRecordEntryMissingField(t *testing.T) {
	ledger, _, notifier, _ := newLedger(t, "A")

	_, err := ledger.RecordEntry(context.Background(), models.EntryInput{UserName: "", Amount: "50", Month: "July", Year: "2024"}, models.KindDeposit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.EqualError(t, err, "All fields are required: userName, amount, month, year")
	assert.Empty(t, notifier.entries)
}

func TestRecordEntryBadAmount(t *testing.T) {
	ledger, _, _, _ := newLedger(t, "A")

	for _, amount := range []string{"abc", "NaN", "Inf"} {
		_, err := ledger.RecordEntry(context.Background(), models.EntryInput{UserName: "A", Amount: amount, Month: "July", Year: "2024"}, models.KindDeposit)
		require.Error(t, err, amount)
		assert.True(t, errors.Is(err, apperr.ErrValidation), amount)
	}
}

func TestRecordEntryUnknownUser(t *testing.T) {
	ledger, _, _, _ := newLedger(t, "A")

	_, err := ledger.RecordEntry(context.Background(), models.EntryInput{UserName: "Nobody", Amount: "10", Month: "July", Year: "2024"}, models.KindWithdrawal)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.EqualError(t, err, "User not found")
}

func TestComputeTotalsEndToEnd(t *testing.T) {
	ctx := context.Background()
	ledger, _, _, _ := newLedger(t, "A", "B")

	_, err := ledger.RecordEntry(ctx, models.EntryInput{UserName: "A", Amount: "100", Month: "July", Year: "2024"}, models.KindDeposit)
	require.NoError(t, err)
	_, err = ledger.RecordEntry(ctx, models.EntryInput{UserName: "A", Amount: "-30", Month: "July", Year: "2024"}, models.KindWithdrawal)
	require.NoError(t, err)

	totals, err := ledger.ComputeTotals(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.UserTotal{
		{UserName: "A", TotalAmount: 70, EntryCount: 2},
		{UserName: "B", TotalAmount: 0, EntryCount: 0},
	}, totals.UserTotals)
	assert.Equal(t, 70.0, totals.BankTotal)
	assert.Equal(t, 2, totals.TotalUsers)
}

func TestComputeTotalsAllowsDebt(t *testing.T) {
	ctx := context.Background()
	ledger, _, _, _ := newLedger(t, "A", "B")

	_, err := ledger.RecordEntry(ctx, models.EntryInput{UserName: "B", Amount: "25", Month: "May", Year: "2024"}, models.KindWithdrawal)
	require.NoError(t, err)
	_, err = ledger.RecordEntry(ctx, models.EntryInput{UserName: "A", Amount: "10", Month: "May", Year: "2024"}, models.KindDeposit)
	require.NoError(t, err)

	totals, err := ledger.ComputeTotals(ctx)
	require.NoError(t, err)

	var sum float64
	for _, ut := range totals.UserTotals {
		sum += ut.TotalAmount
	}
	assert.Equal(t, sum, totals.BankTotal)
	assert.Equal(t, -15.0, totals.BankTotal)

	entries, err := ledger.ListEntries(ctx, models.EntryFilter{})
	require.NoError(t, err)
	var stored float64
	for _, e := range entries {
		stored += e.Amount
	}
	assert.Equal(t, stored, totals.BankTotal)
}

func TestListEntriesOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	ledger, _, _, _ := newLedger(t, "A", "B")

	record := func(user, amount, month string, kind models.EntryKind) models.Entry {
		e, err := ledger.RecordEntry(ctx, models.EntryInput{UserName: user, Amount: amount, Month: month, Year: "2024"}, kind)
		require.NoError(t, err)
		return e
	}
	first := record("A", "100", "July", models.KindDeposit)
	second := record("B", "40", "July", models.KindWithdrawal)
	third := record("A", "5", "August", models.KindWithdrawal)
	fourth := record("B", "60", "August", models.KindDeposit)

	all, err := ledger.ListEntries(ctx, models.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{fourth.ID, third.ID, second.ID, first.ID}, ids(all))
	for i := 1; i < len(all); i++ {
		assert.True(t, !all[i].CreatedAt.After(all[i-1].CreatedAt), "newest first")
	}

	byUser, err := ledger.ListEntries(ctx, models.EntryFilter{UserName: "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, first.ID}, ids(byUser))

	byMonth, err := ledger.ListEntries(ctx, models.EntryFilter{Month: "July", Year: "2024"})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, ids(byMonth))

	unknown, err := ledger.ListEntries(ctx, models.EntryFilter{UserName: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, unknown)

	withdrawals, err := ledger.ListWithdrawals(ctx, models.EntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, second.ID}, ids(withdrawals))
	for _, w := range withdrawals {
		assert.Less(t, w.Amount, 0.0)
		assert.Equal(t, models.KindWithdrawal, w.Kind)
		assert.Contains(t, ids(all), w.ID)
	}

	bWithdrawals, err := ledger.ListWithdrawals(ctx, models.EntryFilter{UserName: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, ids(bWithdrawals))
}

func ids(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
