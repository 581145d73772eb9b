package utils

import (
	"context"
	"time"

	"careerhub/logger"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// CertificateReconciler repairs certificate/progress mismatches completed
// since a point in time.
type CertificateReconciler interface {
	ReconcileCertificates(ctx context.Context, since time.Time) (int, error)
}

const reconcileTimeout = 5 * time.Minute

// LookbackStart is the beginning of the day lookbackDays before at.
func LookbackStart(at time.Time, lookbackDays int) time.Time {
	if lookbackDays < 0 {
		lookbackDays = 0
	}
	return now.With(at.UTC()).BeginningOfDay().AddDate(0, 0, -lookbackDays)
}

// RunCertificateReconciliation runs one reconciliation pass over the
// lookback window.
func RunCertificateReconciliation(ctx context.Context, r CertificateReconciler, lookbackDays int) {
	since := LookbackStart(time.Now(), lookbackDays)

	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	repaired, err := r.ReconcileCertificates(ctx, since)
	if err != nil {
		logger.Log.Error("[CERTIFICATE-SCHEDULER] reconciliation failed", "since", since, "repaired", repaired, "error", err)
		return
	}
	if repaired > 0 {
		logger.Log.Warn("[CERTIFICATE-SCHEDULER] repaired certificate mismatches", "since", since, "repaired", repaired)
		return
	}
	logger.Log.Debug("[CERTIFICATE-SCHEDULER] no mismatches", "since", since)
}

// InitializeCertificateScheduler starts the periodic certificate
// reconciliation. The caller stops the returned scheduler on shutdown.
func InitializeCertificateScheduler(r CertificateReconciler, schedule string, lookbackDays int) (*cron.Cron, error) {
	logger.Log.Info("[CERTIFICATE-SCHEDULER] initializing", "schedule", schedule, "lookback_days", lookbackDays)

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := c.AddFunc(schedule, func() {
		RunCertificateReconciliation(context.Background(), r, lookbackDays)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
