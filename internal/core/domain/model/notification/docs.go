// Package notification models the outbound messaging records: the durable
// NotificationLog row written around every send attempt and the queue Job
// consumed by the dispatcher.
package notification
