// Package config loads the service settings from APP_-prefixed environment
// variables, with defaults matching the production deployment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvScraperBaseURL = "APP_SCRAPER_BASE_URL"
	EnvAgendaPath     = "APP_AGENDA_PATH"
	EnvPort           = "APP_PORT"
	EnvAuthToken      = "APP_AUTH_TOKEN"
	EnvDebug          = "APP_DEBUG"
	EnvLocation       = "APP_LOCATION"
	EnvGymTitle       = "APP_GYM_TITLE"
	EnvGymLocation    = "APP_GYM_LOCATION"
	EnvGymLatitude    = "APP_GYM_LATITUDE"
	EnvGymLongitude   = "APP_GYM_LONGITUDE"
)

// Defaults.
const (
	DefaultScraperBaseURL = "https://crossfit2-rzeszow.cms.efitness.com.pl"
	DefaultAgendaPath     = "/kalendarz-zajec"
	DefaultPort           = 8080
	DefaultAuthToken      = "default-token-change-me"
	DefaultGymTitle       = "CrossFit 2.0 Rzeszów"
	DefaultGymLocation    = "Boya-Żeleńskiego 15, 35-105 Rzeszów, Poland"
	DefaultGymLatitude    = 50.0386
	DefaultGymLongitude   = 22.0026
)

// Settings holds the runtime configuration for the service.
type Settings struct {
	ScraperBaseURL *url.URL
	AgendaPath     string
	Port           int
	AuthToken      string
	Debug          bool

	// Location, when set, overrides the scraped gym address for calendar
	// exports so no homepage fetch is performed.
	Location string

	GymTitle     string
	GymLocation  string
	GymLatitude  float64
	GymLongitude float64
}

// Load reads the settings from the environment. Unset variables fall back
// to defaults; set but malformed values are errors.
func Load() (*Settings, error) {
	baseURL, err := url.Parse(getenv(EnvScraperBaseURL, DefaultScraperBaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvScraperBaseURL, err)
	}

	port, err := intEnv(EnvPort, DefaultPort)
	if err != nil {
		return nil, err
	}
	debug, err := boolEnv(EnvDebug, false)
	if err != nil {
		return nil, err
	}
	latitude, err := floatEnv(EnvGymLatitude, DefaultGymLatitude)
	if err != nil {
		return nil, err
	}
	longitude, err := floatEnv(EnvGymLongitude, DefaultGymLongitude)
	if err != nil {
		return nil, err
	}

	return &Settings{
		ScraperBaseURL: baseURL,
		AgendaPath:     getenv(EnvAgendaPath, DefaultAgendaPath),
		Port:           port,
		AuthToken:      getenv(EnvAuthToken, DefaultAuthToken),
		Debug:          debug,
		Location:       os.Getenv(EnvLocation),
		GymTitle:       getenv(EnvGymTitle, DefaultGymTitle),
		GymLocation:    getenv(EnvGymLocation, DefaultGymLocation),
		GymLatitude:    latitude,
		GymLongitude:   longitude,
	}, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
