package jobs

import (
	"context"
	"time"

	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"go.uber.org/zap"
)

// MonitorSweepJobName is the name of the device monitoring sweep job
const MonitorSweepJobName = "monitor_sweep"

// DefaultSweepTimeout bounds a single sweep across the device fleet
const DefaultSweepTimeout = 2 * time.Minute

// DeviceSweepService defines the interface for running a monitoring sweep.
// This interface allows the job to call the service without importing the service package directly.
type DeviceSweepService interface {
	// RunForScope checks every device visible in the scope carried by ctx
	// and returns the refreshed monitoring results.
	RunForScope(ctx context.Context) ([]domain.DeviceMonitoringResult, error)
}

// MonitorSweepJob periodically refreshes the status, last seen timestamp
// and metrics of every device across all companies.
type MonitorSweepJob struct {
	monitoringService DeviceSweepService
	logger            *zap.Logger
	timeout           time.Duration
}

// NewMonitorSweepJob creates a new device monitoring sweep job.
// The timeout controls how long a single sweep is allowed to run.
func NewMonitorSweepJob(monitoringService DeviceSweepService, logger *zap.Logger, timeout time.Duration) *MonitorSweepJob {
	return &MonitorSweepJob{
		monitoringService: monitoringService,
		logger:            logger,
		timeout:           timeout,
	}
}

// Run executes the monitoring sweep.
// This is called by the scheduler according to the cron expression.
// The sweep runs with an unrestricted company scope so every device
// in the system is checked, not just those of a single company.
func (j *MonitorSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	ctx = auth.WithCompanyScope(ctx, auth.CompanyScope{All: true})

	start := time.Now()
	j.logger.Info("starting device monitoring sweep")

	results, err := j.monitoringService.RunForScope(ctx)
	if err != nil {
		j.logger.Error("device monitoring sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	var online, offline, maintenance int
	for _, r := range results {
		switch r.Status {
		case domain.DeviceStatusOnline:
			online++
		case domain.DeviceStatusOffline:
			offline++
		case domain.DeviceStatusMaintenance:
			maintenance++
		}
	}

	j.logger.Info("device monitoring sweep completed",
		zap.Int("devices_checked", len(results)),
		zap.Int("online", online),
		zap.Int("offline", offline),
		zap.Int("maintenance", maintenance),
		zap.Duration("duration", time.Since(start)))
}

// RegisterMonitorSweepJob registers the device monitoring sweep job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 */5 * * * *" for every 5 minutes).
func RegisterMonitorSweepJob(scheduler *Scheduler, monitoringService DeviceSweepService, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewMonitorSweepJob(monitoringService, logger, timeout)
	return scheduler.AddJob(MonitorSweepJobName, cronExpr, job.Run)
}
