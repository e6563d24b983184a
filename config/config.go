package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server configuration
	Server struct {
		// Port the API listens on
		Port string `env:"SERVER_PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware (comma separated)
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	// Database configuration
	Database struct {
		// Path to the SQLite database file
		Path string `env:"DATABASE_PATH" envDefault:"database/landsale.db"`
	}

	// BatchProcessing configuration for the bulk listing importer
	BatchProcessing struct {
		// Maximum number of listings to accumulate before processing
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`

		// Buffer size of the import queue (in batches)
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"50"`
	}

	// Maintenance configuration for the background scheduler
	Maintenance struct {
		// Days an active listing stays live before it expires
		ListingTTLDays int `env:"LISTING_TTL_DAYS" envDefault:"90"`

		// Listings geocoded per maintenance run
		GeocodeBatchSize int `env:"GEOCODE_BATCH_SIZE" envDefault:"50"`

		// Directory for the geocode result cache
		GeocodeCacheDir string `env:"GEOCODE_CACHE_DIR"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
