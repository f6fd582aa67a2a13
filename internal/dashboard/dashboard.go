// Package dashboard assembles the per-case dashboard from the record store.
//
// The case number passed to GetDashboard must come from a validated session;
// every related record is selected by exact equality on it, so a view never
// contains another case's payments, lawyer or court visits.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JustJay7/case-status-portal/internal/database"
	"github.com/JustJay7/case-status-portal/internal/store"
	"github.com/JustJay7/case-status-portal/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound means the session's case has no user record.
var ErrNotFound = errors.New("user not found")

const (
	DefaultPaymentWindowMonths = 6
	DefaultCourtVisitLimit     = 5
)

var hundred = decimal.NewFromInt(100)

// Config controls payment filtering, court visit truncation and progress
// clamping. Zero values select the defaults.
type Config struct {
	// PaymentWindowMonths limits payments to the trailing window; 0 keeps all.
	PaymentWindowMonths int
	CourtVisitLimit     int
	// ClampProgress caps progress at 100 and remaining at 0 for overpaid
	// cases. Off by default, so amount_paid + amount_remaining always equals
	// the total.
	ClampProgress bool
	Now           func() time.Time
}

// LawyerView is the assigned lawyer, or {"assigned": false}.
type LawyerView struct {
	Assigned bool `json:"assigned"`
	*database.Lawyer
}

// View is the dashboard read model for one case.
type View struct {
	User                database.Profile      `json:"user"`
	Payments            []database.Payment    `json:"payments"`
	Lawyer              LawyerView            `json:"lawyer"`
	CourtVisits         []database.CourtVisit `json:"court_visits"`
	ProgressPercent     int64                 `json:"progress_percent"`
	AmountPaid          decimal.Decimal       `json:"amount_paid"`
	AmountRemaining     decimal.Decimal       `json:"amount_remaining"`
	PaymentWindowMonths int                   `json:"payment_window_months"`
	LastUpdated         time.Time             `json:"last_updated"`
}

// Aggregator builds per-case dashboard views from a record store.
type Aggregator struct {
	store  store.Store
	cfg    Config
	logger *logger.Logger
}

// NewAggregator validates cfg and fills its defaults.
func NewAggregator(s store.Store, cfg Config, log *logger.Logger) (*Aggregator, error) {
	if cfg.PaymentWindowMonths < 0 {
		return nil, fmt.Errorf("dashboard: invalid payment window %d", cfg.PaymentWindowMonths)
	}
	if cfg.CourtVisitLimit == 0 {
		cfg.CourtVisitLimit = DefaultCourtVisitLimit
	}
	if cfg.CourtVisitLimit < 0 {
		return nil, fmt.Errorf("dashboard: invalid court visit limit %d", cfg.CourtVisitLimit)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Aggregator{store: s, cfg: cfg, logger: log}, nil
}

// GetDashboard builds the view for caseNumber. It reads only; the result is
// all-or-nothing.
func (a *Aggregator) GetDashboard(ctx context.Context, caseNumber string) (*View, error) {
	if caseNumber == "" {
		return nil, ErrNotFound
	}

	users, err := a.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	user := findUser(users, caseNumber)
	if user == nil {
		a.logger.Warn("Session case has no user record", "case_number", caseNumber)
		return nil, ErrNotFound
	}

	var (
		payments []database.Payment
		lawyers  []database.Lawyer
		visits   []database.CourtVisit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if payments, err = a.store.Payments(gctx); err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lawyers, err = a.store.Lawyers(gctx); err != nil {
			return fmt.Errorf("failed to load lawyers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if visits, err = a.store.CourtVisits(gctx); err != nil {
			return fmt.Errorf("failed to load court visits: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := a.cfg.Now()
	casePayments := a.selectPayments(payments, caseNumber, now)
	caseVisits := a.selectCourtVisits(visits, caseNumber)

	paid := decimal.Zero
	for _, p := range casePayments {
		paid = paid.Add(p.Amount)
	}
	progress, remaining := a.progress(user.TotalAmount, paid)

	a.logger.Debug("Dashboard assembled",
		"case_number", caseNumber,
		"payments", len(casePayments),
		"court_visits", len(caseVisits),
	)

	return &View{
		User:                user.Profile(),
		Payments:            casePayments,
		Lawyer:              selectLawyer(lawyers, caseNumber),
		CourtVisits:         caseVisits,
		ProgressPercent:     progress,
		AmountPaid:          paid,
		AmountRemaining:     remaining,
		PaymentWindowMonths: a.cfg.PaymentWindowMonths,
		LastUpdated:         now.UTC(),
	}, nil
}

// progress returns round-half-up paid/total*100 (0 when total is not
// positive) and total-paid.
func (a *Aggregator) progress(total, paid decimal.Decimal) (int64, decimal.Decimal) {
	var percent int64
	if total.IsPositive() {
		percent = paid.Mul(hundred).Div(total).Round(0).IntPart()
	}
	remaining := total.Sub(paid)

	if a.cfg.ClampProgress {
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
	}
	return percent, remaining
}

func (a *Aggregator) selectPayments(all []database.Payment, caseNumber string, now time.Time) []database.Payment {
	var cutoff time.Time
	if a.cfg.PaymentWindowMonths > 0 {
		cutoff = now.AddDate(0, -a.cfg.PaymentWindowMonths, 0)
	}

	out := make([]database.Payment, 0)
	for _, p := range all {
		if p.CaseNumber != caseNumber {
			continue
		}
		if !cutoff.IsZero() && (p.PaymentDate.IsZero() || p.PaymentDate.Before(cutoff)) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaymentDate.After(out[j].PaymentDate.Time)
	})
	return out
}

func (a *Aggregator) selectCourtVisits(all []database.CourtVisit, caseNumber string) []database.CourtVisit {
	out := make([]database.CourtVisit, 0)
	for _, v := range all {
		if v.CaseNumber == caseNumber {
			out = append(out, v)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	if len(out) > a.cfg.CourtVisitLimit {
		out = out[:a.cfg.CourtVisitLimit]
	}
	return out
}

func selectLawyer(all []database.Lawyer, caseNumber string) LawyerView {
	for i := range all {
		if all[i].CaseNumber == caseNumber {
			l := all[i]
			return LawyerView{Assigned: true, Lawyer: &l}
		}
	}
	return LawyerView{Assigned: false}
}

func findUser(users []database.CaseUser, caseNumber string) *database.CaseUser {
	for i := range users {
		if users[i].CaseNumber == caseNumber {
			return &users[i]
		}
	}
	return nil
}
