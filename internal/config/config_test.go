package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvScraperBaseURL, EnvAgendaPath, EnvPort, EnvAuthToken, EnvDebug,
		EnvLocation, EnvGymTitle, EnvGymLocation, EnvGymLatitude, EnvGymLongitude,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultScraperBaseURL, settings.ScraperBaseURL.String())
	assert.Equal(t, DefaultAgendaPath, settings.AgendaPath)
	assert.Equal(t, DefaultPort, settings.Port)
	assert.Equal(t, DefaultAuthToken, settings.AuthToken)
	assert.False(t, settings.Debug)
	assert.Empty(t, settings.Location)
	assert.Equal(t, DefaultGymTitle, settings.GymTitle)
	assert.Equal(t, DefaultGymLocation, settings.GymLocation)
	assert.Equal(t, DefaultGymLatitude, settings.GymLatitude)
	assert.Equal(t, DefaultGymLongitude, settings.GymLongitude)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvScraperBaseURL, "https://gym.example.com")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvAuthToken, "secret")
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvLocation, "Somewhere 1, Poland")
	t.Setenv(EnvGymLatitude, "51.1")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gym.example.com", settings.ScraperBaseURL.String())
	assert.Equal(t, 9090, settings.Port)
	assert.Equal(t, "secret", settings.AuthToken)
	assert.True(t, settings.Debug)
	assert.Equal(t, "Somewhere 1, Poland", settings.Location)
	assert.Equal(t, 51.1, settings.GymLatitude)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", EnvPort, "not-a-port"},
		{"bad debug", EnvDebug, "maybe"},
		{"bad latitude", EnvGymLatitude, "north"},
		{"bad longitude", EnvGymLongitude, "east"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
