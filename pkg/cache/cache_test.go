package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() = hit %v, err %v; want miss", hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Error(err)
	}
}

func TestStores(t *testing.T) {
	file, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stores := map[string]Cache{
		"memory": NewMemoryCache(0),
		"file":   file,
	}
	for name, c := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, hit, _ := c.Get(ctx, "svg"); hit {
				t.Fatal("hit before Set")
			}
			if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
				t.Fatal(err)
			}
			data, hit, err := c.Get(ctx, "svg")
			if err != nil || !hit || string(data) != "<svg/>" {
				t.Fatalf("Get() = %q, %v, %v", data, hit, err)
			}
			if err := c.Delete(ctx, "svg"); err != nil {
				t.Fatal(err)
			}
			if _, hit, _ := c.Get(ctx, "svg"); hit {
				t.Error("hit after Delete")
			}
			if err := c.Delete(ctx, "svg"); err != nil {
				t.Errorf("second Delete() = %v", err)
			}
		})
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(0)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("miss before expiry")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(2)
	c.now = func() time.Time { now = now.Add(time.Second); return now }

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("oldest entry survived")
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Error("newest entry evicted")
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	calls := 0
	fill := func() ([]byte, error) {
		calls++
		return []byte("png"), nil
	}

	for range 3 {
		data, err := Fetch(ctx, c, "k", 0, fill)
		if err != nil || string(data) != "png" {
			t.Fatalf("Fetch() = %q, %v", data, err)
		}
	}
	if calls != 1 {
		t.Errorf("fill called %d times, want 1", calls)
	}

	boom := errors.New("graphviz failed")
	if _, err := Fetch(ctx, c, "other", 0, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("Fetch() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("failed fill was cached")
	}
}

func TestRenderKey(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		same bool
	}{
		{"same source", [2]string{"svg", "digraph {}"}, [2]string{"svg", "digraph {}"}, true},
		{"other format", [2]string{"svg", "digraph {}"}, [2]string{"png", "digraph {}"}, false},
		{"other source", [2]string{"svg", "digraph {}"}, [2]string{"svg", "digraph { a }"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderKey(tt.a[0], tt.a[1]) == RenderKey(tt.b[0], tt.b[1])
			if got != tt.same {
				t.Errorf("keys equal = %v, want %v", got, tt.same)
			}
		})
	}
	if len(Hash([]byte("x"))) != 64 {
		t.Error("Hash() is not hex SHA-256")
	}
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"http://localhost:6379", true},
		{"redis://localhost:6379/db", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, err := NewRedisCache(tt.url, "ladderflow:")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRedisCache() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				_ = c.Close()
			}
		})
	}
}
