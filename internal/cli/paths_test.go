package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/llmstream/pkg/cache"
	"github.com/matzehuels/llmstream/pkg/config"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	if !strings.Contains(dir, ".cache") {
		t.Errorf("cacheDir() = %q, should contain '.cache'", dir)
	}
}

func TestCacheDirStructure(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     config.Cache
		noCache bool
		want    string
	}{
		{"no-cache flag", config.Cache{Backend: config.CacheFile}, true, "*cache.NullCache"},
		{"none backend", config.Cache{Backend: config.CacheNone}, false, "*cache.NullCache"},
		{"file backend", config.Cache{Backend: config.CacheFile, Dir: t.TempDir()}, false, "*cache.FileCache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(ctx, tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer c.Close()
			if got := fmt.Sprintf("%T", c); got != tt.want {
				t.Errorf("newCache type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewRunnerScope(t *testing.T) {
	ctx := context.Background()
	c := New(io.Discard, LogInfo)
	cfg := config.Cache{Backend: config.CacheNone}

	plain, err := c.newRunner(ctx, cfg, false, "")
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	scoped, err := c.newRunner(ctx, cfg, false, serveScope)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	if _, ok := scoped.Keyer.(*cache.ScopedKeyer); !ok {
		t.Errorf("scoped keyer = %T, want *cache.ScopedKeyer", scoped.Keyer)
	}

	opts := cache.ArtifactKeyOpts{Format: "svg"}
	pk, sk := plain.Keyer.ArtifactKey("abc", opts), scoped.Keyer.ArtifactKey("abc", opts)
	if sk != serveScope+pk {
		t.Errorf("scoped key = %q, want %q", sk, serveScope+pk)
	}
	if got := scoped.Keyer.DatasetKey("mongodb:db.usage"); !strings.HasPrefix(got, serveScope) {
		t.Errorf("DatasetKey() = %q, want prefix %q", got, serveScope)
	}
}
