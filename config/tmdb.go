package config

import (
	"time"

	"github.com/spf13/viper"
)

// TMDB holds the upstream metadata API configuration.
type TMDB struct {
	BaseURL           string        `json:"base_url" yaml:"base_url"`
	APIKey            string        `json:"api_key" yaml:"api_key"`
	Timeout           time.Duration `json:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second"`
}

func getTMDBConfig(v *viper.Viper) *TMDB {
	baseURL := v.GetString("tmdb.base_url")
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}

	timeout := v.GetDuration("tmdb.timeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	rps := v.GetFloat64("tmdb.requests_per_second")
	if rps == 0 {
		rps = 2 // courtesy rate toward the upstream API
	}

	return &TMDB{
		BaseURL:           baseURL,
		APIKey:            v.GetString("tmdb.api_key"),
		Timeout:           timeout,
		RequestsPerSecond: rps,
	}
}
