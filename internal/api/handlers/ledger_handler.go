package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashibank/hashi-bank-be/internal/models"
	"github.com/hashibank/hashi-bank-be/internal/services"
)

// LedgerHandler handles deposits, withdrawals and totals.
type LedgerHandler struct {
	service services.LedgerServiceProvider
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(service services.LedgerServiceProvider) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Amount accepts either a JSON number or a numeric string.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("amount must be a number or a string")
	}
	*a = Amount(n.String())
	return nil
}

// EntryPayload defines the structure for deposit and withdrawal requests.
type EntryPayload struct {
	UserName string `json:"userName"`
	Amount   Amount `json:"amount"`
	Month    string `json:"month"`
	Year     string `json:"year"`
}

func (p EntryPayload) input() models.EntryInput {
	return models.EntryInput{
		UserName: p.UserName,
		Amount:   string(p.Amount),
		Month:    p.Month,
		Year:     p.Year,
	}
}

// CreateDeposit records a deposit.
func (h *LedgerHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.record(w, r, models.KindDeposit, "Deposit creation")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Deposit added successfully",
		"deposit": entry,
	})
}

// CreateWithdrawal records a withdrawal.
func (h *LedgerHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.record(w, r, models.KindWithdrawal, "Withdrawal processing")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Withdrawal processed successfully",
		"withdrawal": entry,
	})
}

func (h *LedgerHandler) record(w http.ResponseWriter, r *http.Request, kind models.EntryKind, op string) (models.Entry, bool) {
	var payload EntryPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, op, err)
		return models.Entry{}, false
	}

	entry, err := h.service.RecordEntry(r.Context(), payload.input(), kind)
	if err != nil {
		writeError(w, r, op, err)
		return models.Entry{}, false
	}
	return entry, true
}

// ListDeposits lists every ledger entry, newest first.
func (h *LedgerHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, r, "Deposits retrieval", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"deposits": entries,
	})
}

// ListWithdrawals lists negative entries, newest first.
func (h *LedgerHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListWithdrawals(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, r, "Withdrawals retrieval", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"withdrawals": entries,
	})
}

// Totals reports per-user and bank-wide balances.
func (h *LedgerHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.ComputeTotals(r.Context())
	if err != nil {
		writeError(w, r, "Totals calculation", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"userTotals": totals.UserTotals,
		"bankTotal":  totals.BankTotal,
		"totalUsers": totals.TotalUsers,
	})
}

func filterFromQuery(r *http.Request) models.EntryFilter {
	q := r.URL.Query()
	return models.EntryFilter{
		UserName: q.Get("userName"),
		Month:    q.Get("month"),
		Year:     q.Get("year"),
	}
}
