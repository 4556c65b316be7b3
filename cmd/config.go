package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mailroom/internal/pkg/errs"
)

// Allocator backends selectable with ALLOCATOR_BACKEND.
const (
	AllocatorBackendPostgres = "postgres"
	AllocatorBackendMemory   = "memory"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AllocatorBackend  string
	ReconcileSchedule string
	ReconcileGrace    time.Duration

	JWTSecret string
	JWTIssuer string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	NotificationQueueSize   int
	NotificationSendTimeout time.Duration

	ShutdownTimeout time.Duration
}

// LoadConfig reads the configuration through getenv, applying defaults to
// optional values.
func LoadConfig(getenv func(string) string) (Config, error) {
	config := Config{
		HTTPPort:          withDefault(getenv("HTTP_PORT"), "8080"),
		DBHost:            getenv("DB_HOST"),
		DBPort:            withDefault(getenv("DB_PORT"), "5432"),
		DBUser:            getenv("DB_USER"),
		DBPassword:        getenv("DB_PASSWORD"),
		DBName:            getenv("DB_NAME"),
		DBSslMode:         withDefault(getenv("DB_SSLMODE"), "disable"),
		AllocatorBackend:  strings.ToLower(withDefault(getenv("ALLOCATOR_BACKEND"), AllocatorBackendPostgres)),
		ReconcileSchedule: withDefault(getenv("RECONCILE_SCHEDULE"), "*/5 * * * *"),
		JWTSecret:         getenv("JWT_SECRET"),
		JWTIssuer:         getenv("JWT_ISSUER"),
		SMTPHost:          getenv("SMTP_HOST"),
		SMTPPort:          withDefault(getenv("SMTP_PORT"), "587"),
		SMTPUsername:      getenv("SMTP_USERNAME"),
		SMTPPassword:      getenv("SMTP_PASSWORD"),
		SMTPFrom:          getenv("SMTP_FROM"),
	}

	var parseErrs []error
	var err error

	if config.ReconcileGrace, err = durationOr(getenv("RECONCILE_GRACE"), 10*time.Minute); err != nil {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("RECONCILE_GRACE", err))
	}
	if config.NotificationSendTimeout, err = durationOr(getenv("NOTIFICATION_SEND_TIMEOUT"), 10*time.Second); err != nil {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("NOTIFICATION_SEND_TIMEOUT", err))
	}
	if config.ShutdownTimeout, err = durationOr(getenv("SHUTDOWN_TIMEOUT"), 15*time.Second); err != nil {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("SHUTDOWN_TIMEOUT", err))
	}
	if config.NotificationQueueSize, err = intOr(getenv("NOTIFICATION_QUEUE_SIZE"), 256); err != nil {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("NOTIFICATION_QUEUE_SIZE", err))
	}

	if err = errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	var problems []error
	if c.DBHost == "" {
		problems = append(problems, errs.NewValueIsRequiredError("DB_HOST"))
	}
	if c.DBName == "" {
		problems = append(problems, errs.NewValueIsRequiredError("DB_NAME"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, errs.NewValueIsRequiredError("JWT_SECRET"))
	}
	if c.AllocatorBackend != AllocatorBackendPostgres && c.AllocatorBackend != AllocatorBackendMemory {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"ALLOCATOR_BACKEND",
			fmt.Errorf("%q is neither %q nor %q", c.AllocatorBackend, AllocatorBackendPostgres, AllocatorBackendMemory),
		))
	}
	if c.ReconcileGrace <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("RECONCILE_GRACE", c.ReconcileGrace, "1ns", "∞"))
	}
	if c.NotificationQueueSize < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("NOTIFICATION_QUEUE_SIZE", c.NotificationQueueSize, 1, "∞"))
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		problems = append(problems, errs.NewValueIsRequiredError("SMTP_FROM"))
	}
	return errors.Join(problems...)
}

// DSN is the PostgreSQL connection URL. Credentials and the database name
// are escaped, so they may contain spaces, quotes or '@'.
func (c Config) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	if c.DBUser != "" || c.DBPassword != "" {
		dsn.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return dsn.String()
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func durationOr(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(strings.TrimSpace(value))
}

func intOr(value string, fallback int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(value))
}
