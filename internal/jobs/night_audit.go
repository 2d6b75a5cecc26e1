// Package jobs holds scheduled front-desk work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/report"
)

// DefaultSchedule runs the audit at 03:00 every day.
const DefaultSchedule = "0 3 * * *"

// Desk is what the audit reads from.
type Desk interface {
	report.Source
	Today() string
}

// AuditReport is the outcome of one night audit.
type AuditReport struct {
	Date              string              `json:"date"`
	Summary           report.Summary      `json:"summary"`
	OverdueDepartures []model.Reservation `json:"overdueDepartures"`
	NoShowCandidates  []model.Reservation `json:"noShowCandidates"`
}

// NightAudit closes the business day: it computes the daily summary and
// lists stays that should already have ended and bookings whose guest never
// arrived.  It reports, it does not change any record.
type NightAudit struct {
	desk   Desk
	events events.Publisher
	log    *zap.Logger
	cron   *cron.Cron
}

func NewNightAudit(desk Desk, pub events.Publisher, log *zap.Logger) *NightAudit {
	if pub == nil {
		pub = events.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NightAudit{desk: desk, events: pub, log: log}
}

// Run performs one audit now.
func (a *NightAudit) Run(ctx context.Context) (AuditReport, error) {
	today := a.desk.Today()
	snap, err := report.LoadSnapshot(ctx, a.desk)
	if err != nil {
		return AuditReport{}, fmt.Errorf("night audit: load snapshot: %w", err)
	}
	summary, err := report.Summarize(snap, today)
	if err != nil {
		return AuditReport{}, fmt.Errorf("night audit: summarize: %w", err)
	}
	out := AuditReport{
		Date:              today,
		Summary:           summary,
		OverdueDepartures: []model.Reservation{},
		NoShowCandidates:  []model.Reservation{},
	}
	// ISO dates order the same as strings.
	for _, r := range snap.Reservations {
		switch {
		case r.Status == model.ReservationCheckedIn && r.CheckOut < today:
			out.OverdueDepartures = append(out.OverdueDepartures, r)
		case r.Status == model.ReservationConfirmed && r.CheckIn < today:
			out.NoShowCandidates = append(out.NoShowCandidates, r)
		}
	}

	a.log.Info("night audit completed",
		zap.String("date", today),
		zap.Int("occupancy_rate", summary.OccupancyRate),
		zap.String("revenue", summary.Revenue.StringFixed(2)),
		zap.Int("overdue_departures", len(out.OverdueDepartures)),
		zap.Int("no_show_candidates", len(out.NoShowCandidates)),
	)
	for _, r := range out.OverdueDepartures {
		a.log.Warn("overdue departure", zap.String("reservation_id", r.ID), zap.String("check_out", r.CheckOut))
	}
	for _, r := range out.NoShowCandidates {
		a.log.Warn("possible no-show", zap.String("reservation_id", r.ID), zap.String("check_in", r.CheckIn))
	}
	a.events.Publish(events.New(events.NightAuditCompleted, today, out, events.ResourceReports))
	return out, nil
}

// Start schedules Run on the cron spec in loc.  Each run gets timeout.
func (a *NightAudit) Start(spec string, loc *time.Location, timeout time.Duration) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := a.Run(ctx); err != nil {
			a.log.Error("night audit failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("night audit schedule %q: %w", spec, err)
	}
	c.Start()
	a.cron = c
	a.log.Info("night audit scheduled", zap.String("spec", spec), zap.String("location", loc.String()))
	return nil
}

// Stop halts the scheduler and waits for a running audit to finish or ctx
// to expire.
func (a *NightAudit) Stop(ctx context.Context) {
	if a.cron == nil {
		return
	}
	select {
	case <-a.cron.Stop().Done():
	case <-ctx.Done():
	}
}
