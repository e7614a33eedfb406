package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/hashibank/hashi-bank-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// TotalsReporter periodically logs the bank totals on a cron schedule.
type TotalsReporter struct {
	ledger services.LedgerServiceProvider
	cron   *cron.Cron
	spec   string
}

// NewTotalsReporter validates spec (standard five-field cron syntax) and
// prepares a reporter. Call Start to begin reporting.
func NewTotalsReporter(ledger services.LedgerServiceProvider, spec string) (*TotalsReporter, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	r := &TotalsReporter{
		ledger: ledger,
		cron:   cron.New(),
		spec:   spec,
	}
	if _, err := r.cron.AddFunc(spec, r.run); err != nil {
		return nil, fmt.Errorf("schedule totals report: %w", err)
	}
	return r, nil
}

// Start runs the schedule in the background.
func (r *TotalsReporter) Start() {
	log.Info().Str("schedule", r.spec).Msg("Starting totals reporter...")
	r.cron.Start()
}

// Stop halts the schedule and waits for a running report to finish.
func (r *TotalsReporter) Stop() {
	<-r.cron.Stop().Done()
	log.Info().Msg("Stopped totals reporter.")
}

func (r *TotalsReporter) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.Report(ctx); err != nil {
		log.Error().Err(err).Msg("Totals report failed")
	}
}

// Report computes the totals once and logs them.
func (r *TotalsReporter) Report(ctx context.Context) error {
	totals, err := r.ledger.ComputeTotals(ctx)
	if err != nil {
		return err
	}

	for _, ut := range totals.UserTotals {
		log.Info().
			Str("user", ut.UserName).
			Float64("total", ut.TotalAmount).
			Int("entries", ut.EntryCount).
			Msg("User balance")
	}
	log.Info().
		Float64("bank_total", totals.BankTotal).
		Int("users", totals.TotalUsers).
		Msg("Bank totals")
	return nil
}
