package jobs

import (
	"clubrenting-backend/internal/config"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	renting service.RentingService
	config  *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(renting service.RentingService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		renting: renting,
		config:  cfg,
	}
}

// Config exposes the runner configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
