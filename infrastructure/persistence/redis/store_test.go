package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"scanorder/infrastructure/persistence"

	"github.com/redis/go-redis/v9"
)

func TestKeyPrefix(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", KeyPrefix: "scanorder:"})
	defer s.Close()

	if got := s.key("session:t1:cart"); got != "scanorder:session:t1:cart" {
		t.Errorf("key() = %q", got)
	}
}

func TestClosedClient(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"})
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := s.Get(context.Background(), "cart"); !errors.Is(err, persistence.ErrStoreClosed) {
		t.Errorf("Get() after close error = %v", err)
	}
}

func TestUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	s := NewWithClient(client, "")
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping() against a closed port succeeded")
	}
}

func TestMapErr(t *testing.T) {
	if mapErr(nil) != nil {
		t.Error("mapErr(nil) != nil")
	}
	if err := mapErr(redis.ErrClosed); !errors.Is(err, persistence.ErrStoreClosed) {
		t.Errorf("mapErr(ErrClosed) = %v", err)
	}
	plain := errors.New("i/o timeout")
	if mapErr(plain) != plain {
		t.Error("unrelated errors must pass through")
	}
}
