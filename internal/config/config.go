package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lynra/internal/validation"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Mews      MewsConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Booking   BookingConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level       string
	Development bool
}

// MewsConfig holds the upstream credentials. Client and HotelID never leave the server.
type MewsConfig struct {
	BaseURL      string
	Client       string
	HotelID      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RPS          float64
	Burst        int
}

type SecurityConfig struct {
	// InternalSecret gates the reservation endpoint; empty rejects every caller.
	InternalSecret string
}

type LimitConfig struct {
	Limit  int
	Window time.Duration
}

type RateLimitConfig struct {
	Hotel         LimitConfig
	Availability  LimitConfig
	Reservation   LimitConfig
	SweepInterval time.Duration
}

type AuditConfig struct {
	Enabled bool
}

type BookingConfig struct {
	Currency            string
	CheckInTime         string
	CheckOutTime        string
	SessionTTL          time.Duration
	ConfigTimeout       time.Duration
	AvailabilityTimeout time.Duration
	ReservationTimeout  time.Duration
}

var defaults = map[string]any{
	"SERVER_PORT":             8080,
	"SERVER_SHUTDOWN_TIMEOUT": "10s",

	"DB_HOST":              "localhost",
	"DB_PORT":              3306,
	"DB_USER":              "lynra",
	"DB_PASSWORD":          "secret",
	"DB_NAME":              "lynra",
	"DB_MAX_OPEN_CONNS":    10,
	"DB_MAX_IDLE_CONNS":    2,
	"DB_CONN_MAX_LIFETIME": "5m",

	"LOG_LEVEL":       "info",
	"LOG_DEVELOPMENT": false,

	"MEWS_API_URL":           "https://api.mews-demo.com",
	"MEWS_CLIENT":            "My Client 1.0.0",
	"MEWS_HOTEL_ID":          "",
	"UPSTREAM_READ_TIMEOUT":  "8s",
	"UPSTREAM_WRITE_TIMEOUT": "10s",
	"UPSTREAM_RPS":           10,
	"UPSTREAM_BURST":         5,

	"INTERNAL_API_SECRET": "",

	"RATE_LIMIT_HOTEL":               30,
	"RATE_LIMIT_HOTEL_WINDOW":        "1m",
	"RATE_LIMIT_AVAILABILITY":        20,
	"RATE_LIMIT_AVAILABILITY_WINDOW": "1m",
	"RATE_LIMIT_RESERVATION":         10,
	"RATE_LIMIT_RESERVATION_WINDOW":  "1h",
	"RATE_LIMIT_SWEEP_INTERVAL":      "5m",

	"AUDIT_ENABLED": false,

	"SESSION_TTL":               "30m",
	"BOOKING_CURRENCY":          "EUR",
	"CHECK_IN_TIME":             "14:00",
	"CHECK_OUT_TIME":            "11:00",
	"FLOW_CONFIG_TIMEOUT":       "8s",
	"FLOW_AVAILABILITY_TIMEOUT": "8s",
	"FLOW_RESERVATION_TIMEOUT":  "10s",
}

func Load() (*Config, error) {
	return LoadWithDefaults(nil)
}

// LoadWithDefaults reads the environment on top of overrides, which in turn sit on
// top of the built-in defaults. Override keys are matched case-insensitively.
func LoadWithDefaults(overrides map[string]any) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, value := range overrides {
		v.SetDefault(strings.ToUpper(key), value)
	}

	d := durationReader{v: v}
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: d.get("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: d.get("DB_CONN_MAX_LIFETIME"),
		},
		Log: LogConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Mews: MewsConfig{
			BaseURL:      v.GetString("MEWS_API_URL"),
			Client:       v.GetString("MEWS_CLIENT"),
			HotelID:      v.GetString("MEWS_HOTEL_ID"),
			ReadTimeout:  d.get("UPSTREAM_READ_TIMEOUT"),
			WriteTimeout: d.get("UPSTREAM_WRITE_TIMEOUT"),
			RPS:          v.GetFloat64("UPSTREAM_RPS"),
			Burst:        v.GetInt("UPSTREAM_BURST"),
		},
		Security: SecurityConfig{
			InternalSecret: v.GetString("INTERNAL_API_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Hotel: LimitConfig{
				Limit:  v.GetInt("RATE_LIMIT_HOTEL"),
				Window: d.get("RATE_LIMIT_HOTEL_WINDOW"),
			},
			Availability: LimitConfig{
				Limit:  v.GetInt("RATE_LIMIT_AVAILABILITY"),
				Window: d.get("RATE_LIMIT_AVAILABILITY_WINDOW"),
			},
			Reservation: LimitConfig{
				Limit:  v.GetInt("RATE_LIMIT_RESERVATION"),
				Window: d.get("RATE_LIMIT_RESERVATION_WINDOW"),
			},
			SweepInterval: d.get("RATE_LIMIT_SWEEP_INTERVAL"),
		},
		Audit: AuditConfig{
			Enabled: v.GetBool("AUDIT_ENABLED"),
		},
		Booking: BookingConfig{
			Currency:            v.GetString("BOOKING_CURRENCY"),
			CheckInTime:         v.GetString("CHECK_IN_TIME"),
			CheckOutTime:        v.GetString("CHECK_OUT_TIME"),
			SessionTTL:          d.get("SESSION_TTL"),
			ConfigTimeout:       d.get("FLOW_CONFIG_TIMEOUT"),
			AvailabilityTimeout: d.get("FLOW_AVAILABILITY_TIMEOUT"),
			ReservationTimeout:  d.get("FLOW_RESERVATION_TIMEOUT"),
		},
	}
	if d.err != nil {
		return nil, d.err
	}

	for key, value := range map[string]string{
		"CHECK_IN_TIME":  cfg.Booking.CheckInTime,
		"CHECK_OUT_TIME": cfg.Booking.CheckOutTime,
	} {
		if _, err := time.Parse("15:04", value); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	if !validation.IsCurrencyCode(cfg.Booking.Currency) {
		return nil, fmt.Errorf("BOOKING_CURRENCY %q is not a supported currency code", cfg.Booking.Currency)
	}

	return cfg, nil
}

// durationReader keeps the first parse error so Load can report it once.
type durationReader struct {
	v   *viper.Viper
	err error
}

func (r *durationReader) get(key string) time.Duration {
	d, err := time.ParseDuration(r.v.GetString(key))
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("parsing %s: %w", key, err)
	}
	return d
}
