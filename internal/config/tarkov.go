package config

import "time"

type Tarkov struct {
	APIURL         string        `env:"TARKOV_API_URL" envDefault:"https://api.tarkov.dev/graphql" validate:"required,url"`
	Timeout        time.Duration `env:"TARKOV_TIMEOUT" envDefault:"0s" validate:"min=0"`
	RatePerSecond  float64       `env:"TARKOV_RATE_PER_SECOND" envDefault:"5" validate:"min=0"`
	LogFieldMaxLen int           `env:"TARKOV_LOG_FIELD_MAX_LEN" envDefault:"4096" validate:"min=0"`
}
