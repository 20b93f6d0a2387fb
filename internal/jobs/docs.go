// Package jobs contains the scheduled background jobs of the application.
// Currently that is the notification sweep, which re-enqueues stale delivery
// rows so that at-least-once delivery survives process restarts and lost
// in-memory queue buffers.
package jobs
