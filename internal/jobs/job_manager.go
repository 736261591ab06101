package jobs

import (
	"fmt"
)

// JobManager starts and stops the scheduled jobs together.
type JobManager struct {
	outboxPublisherJob *OutboxPublisherJob
}

func NewJobManager(outboxPublisherJob *OutboxPublisherJob) *JobManager {
	return &JobManager{outboxPublisherJob: outboxPublisherJob}
}

func (jm *JobManager) StartAll() error {
	if jm.outboxPublisherJob == nil {
		return nil
	}
	if err := jm.outboxPublisherJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox publisher job: %w", err)
	}
	return nil
}

func (jm *JobManager) StopAll() {
	if jm.outboxPublisherJob != nil {
		jm.outboxPublisherJob.Stop()
	}
}
