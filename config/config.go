package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllowedLocationsEnv overrides catalog.allowed_locations when set.
const AllowedLocationsEnv = "BOOKING_ALLOWED_LOCATIONS"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	Timezone          string `yaml:"timezone"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
	SubmitLockSeconds int    `yaml:"submit_lock_seconds"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

type LogConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// CatalogConfig describes the bookable flight sites. Amounts are whole VND.
type CatalogConfig struct {
	DefaultLocation  string           `yaml:"default_location"`
	AllowedLocations []string         `yaml:"allowed_locations"`
	VNDPerUSD        int64            `yaml:"vnd_per_usd"`
	TimeSlots        []string         `yaml:"time_slots"`
	Discounts        []DiscountTier   `yaml:"discounts"`
	Locations        []LocationConfig `yaml:"locations"`
}

type DiscountTier struct {
	MinGuests    int   `yaml:"min_guests"`
	PerPersonVND int64 `yaml:"per_person_vnd"`
}

type LocationConfig struct {
	Key        string        `yaml:"key"`
	Name       LocalizedText `yaml:"name"`
	WeekdayVND int64         `yaml:"weekday_vnd"`
	WeekendVND int64         `yaml:"weekend_vnd"`
	Included   LocalizedList `yaml:"included"`
	Excluded   LocalizedList `yaml:"excluded"`
	Addons     AddonPrices   `yaml:"addons"`
}

type LocalizedText struct {
	VI string `yaml:"vi"`
	EN string `yaml:"en"`
}

type LocalizedList struct {
	VI []string `yaml:"vi"`
	EN []string `yaml:"en"`
}

// AddonPrices holds per-person prices; a nil price means the add-on is not offered.
type AddonPrices struct {
	Pickup    *int64 `yaml:"pickup"`
	Flycam    *int64 `yaml:"flycam"`
	Camera360 *int64 `yaml:"camera360"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if raw, ok := os.LookupEnv(AllowedLocationsEnv); ok {
		cfg.Catalog.AllowedLocations = splitList(raw)
	}

	return &cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
