// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
// OutboxPublisherJob runs every five seconds by default. It takes a Redis
// lease so only one replica drains the outbox, reads unpublished rows whose
// attempt count is below the limit, publishes each to Kafka keyed by order id
// and marks the row published or failed.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(outboxJob)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed publish never aborts the batch; it bumps the row's attempt count
// and is retried on the next run. Rows that reach the attempt limit stay in
// the table for inspection.
package jobs
