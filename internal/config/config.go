package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port             string
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// GeminiAPIKey enables the AI classification tier when set.
	GeminiAPIKey string

	// ConfidenceThreshold is the review cutoff for classifications.
	ConfidenceThreshold float64

	// SchedulesFile overrides the embedded tax schedules when set.
	SchedulesFile string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:                "8888",
		PostgresAddress:     "localhost",
		PostgresPort:        "5433",
		PostgresDB:          "postgres",
		PostgresUsername:    "postgres",
		PostgresPassword:    "testpassword",
		ConfidenceThreshold: 0.7,
	}

	envPort := os.Getenv("PORT")
	envPostgresAddress := os.Getenv("POSTGRES_ADDRESS")
	envPostgresPort := os.Getenv("POSTGRES_PORT")
	envPostgresDB := os.Getenv("POSTGRES_DB")
	envPostgresUsername := os.Getenv("POSTGRES_USERNAME")
	envPostgresPassword := os.Getenv("POSTGRES_PASSWORD")
	envGeminiAPIKey := os.Getenv("GEMINI_API_KEY")
	envConfidenceThreshold := os.Getenv("CONFIDENCE_THRESHOLD")
	envSchedulesFile := os.Getenv("SCHEDULES_FILE")

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envPostgresAddress) != 0 {
		env.PostgresAddress = envPostgresAddress
	}

	if len(envPostgresPort) != 0 {
		env.PostgresPort = envPostgresPort
	}

	if len(envPostgresDB) != 0 {
		env.PostgresDB = envPostgresDB
	}

	if len(envPostgresUsername) != 0 {
		env.PostgresUsername = envPostgresUsername
	}

	if len(envPostgresPassword) != 0 {
		env.PostgresPassword = envPostgresPassword
	}

	if len(envGeminiAPIKey) != 0 {
		env.GeminiAPIKey = envGeminiAPIKey
	}

	if len(envConfidenceThreshold) != 0 {
		threshold, err := strconv.ParseFloat(envConfidenceThreshold, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing CONFIDENCE_THRESHOLD: %w", err)
		}
		if threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("CONFIDENCE_THRESHOLD %v outside [0, 1]", threshold)
		}
		env.ConfidenceThreshold = threshold
	}

	if len(envSchedulesFile) != 0 {
		env.SchedulesFile = envSchedulesFile
	}

	return &env, nil
}
