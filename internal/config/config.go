package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atikes/hr-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// paidLeaveCategories are the leave categories that may count as paid.
// Leave without pay (lwp) never does.
var paidLeaveCategories = []string{"casual", "sick"}

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Shift      ShiftConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type StorageConfig struct {
	Driver string
}

// ShiftConfig describes the working day boundary. A shift runs from
// StartHour on its day to EndHour on the next calendar day.
type ShiftConfig struct {
	StartHour int
	EndHour   int
	Timezone  string
}

type AttendanceConfig struct {
	MinPresenceSeconds int64
	EnforceShiftStart  bool
	OfficeStart        string
	OfficeEnd          string
	// ReminderInterval is how often open sessions past their shift end are
	// reminded. Zero disables the reminder.
	ReminderInterval time.Duration
}

type LeaveConfig struct {
	PaidCategories []string
	QuotaCasual    int
	QuotaSick      int
}

// Load reads the environment, with values from an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	config, err := fromEnv()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func fromEnv() (*Config, error) {
	var errs []error
	intVar := func(key string, fallback int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}

	config := &Config{}

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     intVar("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hr_backend"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(intVar("DB_MAX_CONNS", 25)),
		MinConns: int32(intVar("DB_MIN_CONNS", 5)),
	}

	// Application configuration
	config.App = AppConfig{
		Port:        intVar("APP_PORT", 8080),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err))
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
	}

	config.Shift = ShiftConfig{
		StartHour: intVar("SHIFT_START_HOUR", 10),
		EndHour:   intVar("SHIFT_END_HOUR", 6),
		Timezone:  getEnv("SHIFT_TIMEZONE", "Asia/Kolkata"),
	}

	enforce, err := strconv.ParseBool(getEnv("ATTENDANCE_ENFORCE_SHIFT_START", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid ATTENDANCE_ENFORCE_SHIFT_START: %w", err))
	}
	reminderInterval, err := time.ParseDuration(getEnv("ATTENDANCE_REMINDER_INTERVAL", "1h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid ATTENDANCE_REMINDER_INTERVAL: %w", err))
	}
	config.Attendance = AttendanceConfig{
		MinPresenceSeconds: int64(intVar("ATTENDANCE_MIN_PRESENCE_SECONDS", 1)),
		EnforceShiftStart:  enforce,
		OfficeStart:        getEnv("OFFICE_START", "09:30"),
		OfficeEnd:          getEnv("OFFICE_END", "17:30"),
		ReminderInterval:   reminderInterval,
	}

	paid := getEnvSlice("LEAVE_PAID_CATEGORIES")
	if len(paid) == 0 {
		paid = []string{"casual", "sick"}
	}
	config.Leave = LeaveConfig{
		PaidCategories: paid,
		QuotaCasual:    intVar("LEAVE_QUOTA_CASUAL", 6),
		QuotaSick:      intVar("LEAVE_QUOTA_SICK", 6),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Shift.StartHour < 0 || c.Shift.StartHour > 23 || c.Shift.EndHour < 0 || c.Shift.EndHour > 23 {
		return fmt.Errorf("SHIFT_START_HOUR and SHIFT_END_HOUR must be between 0 and 23")
	}
	if _, err := time.LoadLocation(c.Shift.Timezone); err != nil {
		return fmt.Errorf("invalid SHIFT_TIMEZONE: %w", err)
	}
	if c.Attendance.MinPresenceSeconds < 0 {
		return fmt.Errorf("ATTENDANCE_MIN_PRESENCE_SECONDS must not be negative")
	}
	if c.Attendance.ReminderInterval < 0 {
		return fmt.Errorf("ATTENDANCE_REMINDER_INTERVAL must not be negative")
	}
	if c.Leave.QuotaCasual < 0 || c.Leave.QuotaSick < 0 {
		return fmt.Errorf("leave quotas must not be negative")
	}
	for _, category := range c.Leave.PaidCategories {
		if !validator.IsInSlice(strings.ToLower(category), paidLeaveCategories) {
			return fmt.Errorf("LEAVE_PAID_CATEGORIES: %q cannot be a paid category", category)
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the shift calendar zone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Shift.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
