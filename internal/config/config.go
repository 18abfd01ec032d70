package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyLogger = key("logger")
)

type Config struct {
	Service  Service
	Platform Platform
	Logger   Logger
	ChatAPI  ChatAPI
	Realtime Realtime
	Sync     Sync
	Cache    Cache
}

type Service struct {
	Port string `env:"CHAT_SYNC_SERVICE_PORT" env-default:"8085"`
	Name string `env:"CHAT_SYNC_SERVICE_NAME" env-default:"chat-sync"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type ChatAPI struct {
	BaseURL string        `env:"CHAT_API_BASE_URL" env-required:"true"`
	Timeout time.Duration `env:"CHAT_API_TIMEOUT" env-default:"10s"`
}

type Realtime struct {
	URL        string        `env:"REALTIME_URL" env-required:"true"`
	Token      string        `env:"REALTIME_TOKEN" env-required:"true"`
	JWTSecret  string        `env:"REALTIME_JWT_SECRET"`
	MaxBackoff time.Duration `env:"REALTIME_MAX_BACKOFF" env-default:"30s"`
}

type Sync struct {
	ReadReceiptDebounce time.Duration `env:"READ_RECEIPT_DEBOUNCE" env-default:"500ms"`
	TypingInterval      time.Duration `env:"TYPING_INTERVAL" env-default:"3s"`
	PageSize            int           `env:"BACKFILL_PAGE_SIZE" env-default:"50"`
	HydrateLimit        int           `env:"HYDRATE_LIMIT" env-default:"50"`
	QueueSize           int           `env:"ENGINE_QUEUE_SIZE" env-default:"1024"`
}

type Cache struct {
	Driver string `env:"CACHE_DRIVER" env-default:"sqlite3"`
	DSN    string `env:"CACHE_DSN" env-default:"file:chat-sync.db?_foreign_keys=on"`
}

func MustLoad() *Config {
	cfg := &Config{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatalf("failed to read env variables: %s", err)
	}
	return cfg
}
