package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleAPI   GoogleAPIConfig
	Queue       QueueConfig
	Log         LogConfig
	Events      EventsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	TTL         time.Duration
	AdminEmails []string
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type QueueConfig struct {
	Concurrency int
	SweepCron   string
}

type LogConfig struct {
	Level  string
	Format string
}

// EventsConfig holds the booking policy knobs.
type EventsConfig struct {
	MaxFutureEvents      int
	MaxFourWeeks         int
	FourWeekWindowDays   int
	SuspendedEventExpiry int // days
	OperatingHoursOpen   int
	OperatingHoursClose  int
	Timezone             string
	Rooms                []string
	EventTypes           []string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dojo_events")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ADMIN_EMAILS", "")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "")

	v.SetDefault("QUEUE_CONCURRENCY", 5)
	v.SetDefault("SWEEP_CRON", "@every 1h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("USER_MAX_FUTURE_EVENTS", 10)
	v.SetDefault("USER_MAX_FOUR_WEEKS", 6)
	v.SetDefault("FOUR_WEEK_WINDOW_DAYS", 28)
	v.SetDefault("SUSPENDED_EVENT_EXPIRY", 14)
	v.SetDefault("OPERATING_HOURS_OPEN", 9)
	v.SetDefault("OPERATING_HOURS_CLOSE", 18)
	v.SetDefault("TIMEZONE", "America/Los_Angeles")
	v.SetDefault("ROOMS", "Main Space,Classroom,Conference Room,Kitchen,Electronics Lab")
	v.SetDefault("EVENT_TYPES", "Meetup,Class,Workshop,Hackathon,Private")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			TTL:         v.GetDuration("JWT_TTL"),
			AdminEmails: splitList(strings.ToLower(v.GetString("ADMIN_EMAILS"))),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		},
		Queue: QueueConfig{
			Concurrency: v.GetInt("QUEUE_CONCURRENCY"),
			SweepCron:   v.GetString("SWEEP_CRON"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Events: EventsConfig{
			MaxFutureEvents:      v.GetInt("USER_MAX_FUTURE_EVENTS"),
			MaxFourWeeks:         v.GetInt("USER_MAX_FOUR_WEEKS"),
			FourWeekWindowDays:   v.GetInt("FOUR_WEEK_WINDOW_DAYS"),
			SuspendedEventExpiry: v.GetInt("SUSPENDED_EVENT_EXPIRY"),
			OperatingHoursOpen:   v.GetInt("OPERATING_HOURS_OPEN"),
			OperatingHoursClose:  v.GetInt("OPERATING_HOURS_CLOSE"),
			Timezone:             v.GetString("TIMEZONE"),
			Rooms:                splitList(v.GetString("ROOMS")),
			EventTypes:           splitList(v.GetString("EVENT_TYPES")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	e := c.Events
	if e.MaxFutureEvents < 1 || e.MaxFourWeeks < 1 {
		return fmt.Errorf("event limits must be positive")
	}
	if e.FourWeekWindowDays < 1 || e.SuspendedEventExpiry < 0 {
		return fmt.Errorf("event windows must be positive")
	}
	if e.OperatingHoursOpen < 0 || e.OperatingHoursClose > 24 || e.OperatingHoursOpen >= e.OperatingHoursClose {
		return fmt.Errorf("invalid operating hours %d-%d", e.OperatingHoursOpen, e.OperatingHoursClose)
	}
	if _, err := time.LoadLocation(e.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", e.Timezone, err)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Init loads the configuration once and stores it for Get/GetSafe.
func Init() (*Config, error) {
	var err error
	once.Do(func() {
		var cfg *Config
		cfg, err = Load()
		if err != nil {
			return
		}
		mu.Lock()
		instance = cfg
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return Get(), nil
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

func GetSafe() (*Config, bool) {
	cfg := Get()
	return cfg, cfg != nil
}

// Location returns the facility time zone. Validated at load.
func (e EventsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
