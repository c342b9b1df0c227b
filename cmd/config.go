package cmd

// Config carries everything the application reads from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// PlatformAccountID is the ledger identity the marketplace's fee share
	// settles to.
	PlatformAccountID string

	// KafkaHost is empty when no broker is wired; analytics events are
	// then discarded.
	KafkaHost           string
	KafkaAnalyticsTopic string
}
