package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Mail     MailConfig     `yaml:"mail"`
	Auth     AuthConfig     `yaml:"auth"`
}

type HTTPConfig struct {
	Address         string   `yaml:"address"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
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
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	Timezone          string `yaml:"timezone"`
	MinAdvancePercent int    `yaml:"min_advance_percent"`
	BackdateDays      int    `yaml:"backdate_days"`
	RoomsCacheTTL     int    `yaml:"rooms_cache_ttl_seconds"`
}

// Location resolves Timezone, UTC when empty.
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking timezone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

func (b BookingConfig) RoomsCacheDuration() time.Duration {
	return time.Duration(b.RoomsCacheTTL) * time.Second
}

type WorkerConfig struct {
	// ReminderAt is the local "HH:MM" the checkout reminders go out at.
	ReminderAt string `yaml:"reminder_at"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LoadConfig reads the YAML file at path. A .env file next to the process is
// loaded first when present, and secrets set in the environment win over the
// file.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(cfg)

	if _, err := cfg.Booking.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			RateLimitPerSec: 10,
			RateLimitBurst:  20,
		},
		Kafka: KafkaConfig{
			BookingTopic:       "booking_events",
			NotificationsTopic: "notifications",
			GroupID:            "hotelbooking-worker",
		},
		Booking: BookingConfig{
			Timezone:          "UTC",
			MinAdvancePercent: 10,
			BackdateDays:      2,
			RoomsCacheTTL:     60,
		},
		Worker: WorkerConfig{ReminderAt: "09:00"},
		Mail:   MailConfig{Port: 587},
	}
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"DATABASE_PASSWORD", &cfg.Database.Password},
		{"REDIS_PASSWORD", &cfg.Redis.Password},
		{"JWT_SECRET", &cfg.Auth.JWTSecret},
		{"SMTP_PASSWORD", &cfg.Mail.Password},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok {
			*o.target = v
		}
	}
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
