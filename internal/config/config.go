package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Postgres Postgres
	Tarkov   Tarkov
	Sync     Sync
	Profit   Profit
	HTTP     HTTP
	Redis    Redis
	Bot      Bot
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"barter-market"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// SlogLevel переводит LOG_LEVEL в уровень slog.
func (a App) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Bot — уведомления в Telegram. Без токена уведомления выключены.
// Commands дополнительно включает команды администратора из чата ChatID.
type Bot struct {
	Token      string `env:"BOT_TOKEN" json:"-"`
	ChatID     int64  `env:"BOT_CHAT_ID" validate:"required_with=Token"`
	DigestSize int    `env:"BOT_DIGEST_SIZE" envDefault:"5" validate:"min=1"`
	Commands   bool   `env:"BOT_COMMANDS" envDefault:"false"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("validate.Struct: %w", err)
		}

		messages := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
		}

		return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
	}

	return nil
}
