package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"scanorder/config"
	"scanorder/infrastructure/persistence"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Config struct {
	Enabled         bool
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	JitterEnabled   bool
	RetryOnDeadlock bool
	RetryOnBusy     bool
	RetryPredicate  func(error) bool
}

var DefaultConfig = Config{
	Enabled:         true,
	MaxAttempts:     3,
	InitialDelay:    50 * time.Millisecond,
	MaxDelay:        time.Second,
	BackoffFactor:   2.0,
	JitterEnabled:   true,
	RetryOnDeadlock: true,
	RetryOnBusy:     true,
}

func FromAppConfig(appConfig *config.Config) Config {
	retryConfig := appConfig.Storage.Retry

	return Config{
		Enabled:         retryConfig.Enabled,
		MaxAttempts:     retryConfig.MaxAttempts,
		InitialDelay:    retryConfig.InitialDelay,
		MaxDelay:        retryConfig.MaxDelay,
		BackoffFactor:   retryConfig.BackoffFactor,
		JitterEnabled:   retryConfig.JitterEnabled,
		RetryOnDeadlock: retryConfig.RetryOnDeadlock,
		RetryOnBusy:     retryConfig.RetryOnBusy,
	}
}

func ExponentialBackoffWithJitter(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		jitterFactor := 0.8 + rand.Float64()*0.4
		delay = delay * jitterFactor
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IsRetryableError transient store failures only. A missing key or a full store
// gives the same answer on every attempt.
func IsRetryableError(err error, config Config) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, persistence.ErrKeyNotFound) ||
		errors.Is(err, persistence.ErrQuotaExceeded) ||
		errors.Is(err, persistence.ErrStoreClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213, 1205:
			return config.RetryOnDeadlock
		}
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return config.RetryOnBusy
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "deadlock") || strings.Contains(errStr, "lock wait timeout") {
		return config.RetryOnDeadlock
	}
	if strings.Contains(errStr, "database is locked") || strings.Contains(errStr, "sqlite_busy") {
		return config.RetryOnBusy
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && (strings.Contains(errStr, "lost") || strings.Contains(errStr, "refused"))) {
		return true
	}

	return false
}

func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryableError(err, config) || attempt == config.MaxAttempts {
			break
		}

		delay := ExponentialBackoffWithJitter(attempt, config)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}

	return lastErr
}

// Store retries every call of the wrapped store under config
type Store struct {
	next   persistence.Store
	config Config
}

func NewStore(next persistence.Store, config Config) *Store {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &Store{next: next, config: config}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := ExecuteWithRetry(ctx, s.config, func(ctx context.Context) error {
		var err error
		value, err = s.next.Get(ctx, key)
		return err
	})
	return value, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return ExecuteWithRetry(ctx, s.config, func(ctx context.Context) error {
		return s.next.Set(ctx, key, value)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return ExecuteWithRetry(ctx, s.config, func(ctx context.Context) error {
		return s.next.Delete(ctx, key)
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Store) Close() error {
	return s.next.Close()
}

var _ persistence.Store = (*Store)(nil)
