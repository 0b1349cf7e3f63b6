package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// exerciseStore checks the contract every backend must honour.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "test_" + t.Name()

	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get on missing key: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, key, `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := s.Get(ctx, key); err != nil || !ok || v != `{"a":1}` {
		t.Fatalf("Get = %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Set(ctx, key, "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, key); v != "second" {
		t.Fatalf("after overwrite Get = %q", v)
	}

	if u, ok := s.(Updater); ok {
		counter := key + "_counter"
		for i := 0; i < 3; i++ {
			err := u.Update(ctx, counter, func(cur string, ok bool) (string, error) {
				n := 0
				if ok {
					n, _ = strconv.Atoi(cur)
				}
				return strconv.Itoa(n + 1), nil
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
		if v, _, _ := s.Get(ctx, counter); v != "3" {
			t.Fatalf("counter = %q, want 3", v)
		}
		boom := errors.New("boom")
		err := u.Update(ctx, counter, func(string, bool) (string, error) { return "", boom })
		if !errors.Is(err, boom) {
			t.Fatalf("Update should return fn error, got %v", err)
		}
		if v, _, _ := s.Get(ctx, counter); v != "3" {
			t.Fatalf("failed update changed value to %q", v)
		}
		_ = s.Remove(ctx, counter)
	}

	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, key); ok {
		t.Fatal("key still present after Remove")
	}
	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("Remove of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory(0))
}

func TestMemoryQuota(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	if err := m.Set(ctx, "k", "12345"); err != nil { // 6 bytes
		t.Fatalf("Set within quota: %v", err)
	}
	err := m.Set(ctx, "k2", "123456") // 6 + 8 > 10
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k2"); ok {
		t.Fatal("rejected write was stored")
	}
	if err := m.Set(ctx, "k", "123456789"); err != nil { // replaces, 10 bytes
		t.Fatalf("overwrite within quota: %v", err)
	}
	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, "k2", "123456"); err != nil {
		t.Fatalf("Set after freeing space: %v", err)
	}
	if m.Keys() != 1 {
		t.Fatalf("Keys = %d, want 1", m.Keys())
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	exerciseStore(t, s)

	ctx := context.Background()
	if err := s.Set(ctx, "persist", "yes"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLite(path) // Migrations must be idempotent
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if v, ok, err := reopened.Get(ctx, "persist"); err != nil || !ok || v != "yes" {
		t.Fatalf("value lost across reopen: %q ok=%v err=%v", v, ok, err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	s, err := NewRedis(context.Background(), &redis.Options{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisUnreachable(t *testing.T) {
	s := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	defer s.Close()
	if err := s.Set(context.Background(), "k", "v"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := NewSQL(db)
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "floppy"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	s, err := Open(context.Background(), Options{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("got %T, want *Memory", s)
	}
	if err := Close(s); err != nil {
		t.Fatal(err)
	}
}
