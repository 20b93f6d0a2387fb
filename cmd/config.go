package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// KafkaHost empty means the in-process channel queue is used instead.
	KafkaHost               string
	KafkaConsumerGroup      string
	KafkaNotificationsTopic string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUser     string
	SMTPPassword string

	QueueCapacity    string
	QueueWorkers     string
	SweepStaleAfter  string
	SweepMaxAttempts string
}
