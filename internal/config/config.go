package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/petmap-service/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Log     LogConfig
	Places  PlacesConfig
	Map     MapConfig
	Session SessionConfig
	Worker  WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// PlacesConfig - удалённый backend с заведениями
type PlacesConfig struct {
	BaseURL        string
	Token          string
	RequestTimeout time.Duration
}

// MapConfig - статическая таблица распознаваемых опций карты
type MapConfig struct {
	DefaultLat         float64
	DefaultLng         float64
	RadiusOptions      []int
	DefaultRadius      int
	WideScaleThreshold int
	DetailZoom         int
	NormalZoom         int
}

type SessionConfig struct {
	Store string // memory | redis
	TTL   time.Duration
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
	BatchSize     int
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// .env опционален, переменные окружения всегда имеют приоритет
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	v.AutomaticEnv()

	radiusOptions, err := parseIntList(v.GetString("MAP_RADIUS_OPTIONS"))
	if err != nil {
		return nil, fmt.Errorf("MAP_RADIUS_OPTIONS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Places: PlacesConfig{
			BaseURL:        strings.TrimRight(v.GetString("PLACES_API_BASE_URL"), "/"),
			Token:          v.GetString("PLACES_API_TOKEN"),
			RequestTimeout: time.Duration(v.GetInt("PLACES_API_TIMEOUT")) * time.Second,
		},
		Map: MapConfig{
			DefaultLat:         v.GetFloat64("MAP_DEFAULT_LAT"),
			DefaultLng:         v.GetFloat64("MAP_DEFAULT_LNG"),
			RadiusOptions:      radiusOptions,
			DefaultRadius:      v.GetInt("MAP_DEFAULT_RADIUS"),
			WideScaleThreshold: v.GetInt("MAP_WIDE_SCALE_THRESHOLD"),
			DetailZoom:         v.GetInt("MAP_DETAIL_ZOOM"),
			NormalZoom:         v.GetInt("MAP_NORMAL_ZOOM"),
		},
		Session: SessionConfig{
			Store: strings.ToLower(v.GetString("SESSION_STORE")),
			TTL:   time.Duration(v.GetInt("SESSION_TTL")) * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    v.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "*")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SEARCH_CACHE_TTL", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PLACES_API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("PLACES_API_TIMEOUT", 10)
	// Центр города по умолчанию: Шанхай, People's Square
	v.SetDefault("MAP_DEFAULT_LAT", 31.2304)
	v.SetDefault("MAP_DEFAULT_LNG", 121.4737)
	v.SetDefault("MAP_RADIUS_OPTIONS", "1000,3000,5000,10000")
	v.SetDefault("MAP_DEFAULT_RADIUS", 3000)
	v.SetDefault("MAP_WIDE_SCALE_THRESHOLD", 12)
	v.SetDefault("MAP_DETAIL_ZOOM", 18)
	v.SetDefault("MAP_NORMAL_ZOOM", 14)
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL", 1800)
	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "places-search-workers")
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_BATCH_SIZE", 20)
}

// Validate проверяет конфигурацию целиком и возвращает все найденные проблемы
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.Places.BaseURL == "" {
		errs = append(errs, "PLACES_API_BASE_URL is required")
	}
	if c.Places.RequestTimeout <= 0 {
		errs = append(errs, "PLACES_API_TIMEOUT must be positive")
	}
	if !c.Map.DefaultCoordinate().Valid() {
		errs = append(errs, fmt.Sprintf("MAP_DEFAULT_LAT/LNG is not a valid coordinate: %v,%v",
			c.Map.DefaultLat, c.Map.DefaultLng))
	}
	if len(c.Map.RadiusOptions) == 0 {
		errs = append(errs, "MAP_RADIUS_OPTIONS must not be empty")
	}
	for _, r := range c.Map.RadiusOptions {
		if r <= 0 {
			errs = append(errs, fmt.Sprintf("MAP_RADIUS_OPTIONS contains non-positive radius %d", r))
		}
	}
	if !c.Map.IsRadiusAllowed(c.Map.DefaultRadius) {
		errs = append(errs, fmt.Sprintf("MAP_DEFAULT_RADIUS %d is not one of MAP_RADIUS_OPTIONS", c.Map.DefaultRadius))
	}
	if c.Map.DetailZoom <= c.Map.NormalZoom {
		errs = append(errs, "MAP_DETAIL_ZOOM must be greater than MAP_NORMAL_ZOOM")
	}
	if c.Session.Store != "memory" && c.Session.Store != "redis" {
		errs = append(errs, fmt.Sprintf("SESSION_STORE must be memory or redis, got %q", c.Session.Store))
	}
	if c.Worker.Enabled && c.Session.Store != "redis" {
		errs = append(errs, "WORKER_ENABLED requires SESSION_STORE=redis: worker and API share sessions")
	}
	if c.Worker.Enabled && c.Worker.BatchSize <= 0 {
		errs = append(errs, "WORKER_BATCH_SIZE must be positive")
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// DefaultCoordinate - резервная координата (центр города)
func (m MapConfig) DefaultCoordinate() domain.Coordinate {
	return domain.NewCoordinate(m.DefaultLat, m.DefaultLng)
}

// IsRadiusAllowed проверяет, входит ли радиус в таблицу опций
func (m MapConfig) IsRadiusAllowed(radius int) bool {
	for _, r := range m.RadiusOptions {
		if r == radius {
			return true
		}
	}
	return false
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", trimmed)
		}
		result = append(result, n)
	}
	sort.Ints(result)
	return result, nil
}

// RedisRequired - нужен ли Redis: общие сессии или очередь асинхронного поиска
func (c *Config) RedisRequired() bool {
	return c.Session.Store == "redis" || c.Worker.Enabled
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
