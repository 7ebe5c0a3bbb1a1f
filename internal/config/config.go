package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DBConnectionString string
	Places             *PlacesConfig
	Sync               *SyncConfig
	ScheduleInterval   time.Duration
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")

	places := DefaultPlacesConfig()
	places.APIKey = getEnv("GOOGLE_PLACES_API_KEY", "")

	scheduleInterval, err := strconv.Atoi(getEnv("SCHEDULE_CHECK_MINUTES", "5"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DBConnectionString: dbConnStr,
		Places:             places,
		Sync:               DefaultSyncConfig(),
		ScheduleInterval:   time.Duration(scheduleInterval) * time.Minute,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
