package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Store       Store
	TelegramBot TelegramBot
	Schedule    Schedule
}

type Store struct {
	Backend    string `envconfig:"STORE_BACKEND" default:"file"`
	KeyPrefix  string `envconfig:"KEY_PREFIX" default:"bg_"`
	DataDir    string `envconfig:"DATA_DIR" default:"./data"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"bolao.db"`
	Redis      Redis
}

type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// TelegramBot is optional. With no token the announcer stays off.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func (t TelegramBot) Enabled() bool {
	return t.Token != ""
}

type Schedule struct {
	RankingCron string `envconfig:"RANKING_CRON" default:"0 9 * * *"`
	Timezone    string `envconfig:"TIMEZONE" default:"America/Sao_Paulo"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if _, err := cron.ParseStandard(c.Schedule.RankingCron); err != nil {
		return fmt.Errorf("invalid RANKING_CRON %q: %w", c.Schedule.RankingCron, err)
	}
	return nil
}
