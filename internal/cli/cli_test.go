package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stellarmap/pkg/buildinfo"
	"github.com/matzehuels/stellarmap/pkg/config"
)

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := map[string]bool{"render": false, "catalog": false, "cache": false, "version": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestVersionCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), buildinfo.String()+"\n"; got != want {
		t.Errorf("version output = %q, want %q", got, want)
	}
}

func TestCacheDir(t *testing.T) {
	dir := isolate(t)

	got, err := cacheDir(nil)
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(dir, "cache", appName); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}

	cfg := &config.Config{Cache: config.Cache{Dir: "/tmp/elsewhere"}}
	if got, _ := cacheDir(cfg); got != "/tmp/elsewhere" {
		t.Errorf("configured cacheDir() = %q", got)
	}
}

func TestNewCacheDisabled(t *testing.T) {
	isolate(t)
	c := New(&bytes.Buffer{}, LogInfo)
	if ch := c.newCache(context.Background(), config.Default(), true); ch != nil {
		t.Errorf("--no-cache should disable caching, got %T", ch)
	}
	cfg := &config.Config{Cache: config.Cache{Disabled: true}}
	if ch := c.newCache(context.Background(), cfg, false); ch != nil {
		t.Errorf("disabled cache should be nil, got %T", ch)
	}
}

func TestNewCacheRedisFallback(t *testing.T) {
	dir := isolate(t)
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	cfg := &config.Config{Cache: config.Cache{RedisAddr: "127.0.0.1:1", Dir: filepath.Join(dir, "fc")}}

	ch := c.newCache(context.Background(), cfg, false)
	if ch == nil {
		t.Fatal("expected file cache fallback")
	}
	defer ch.Close()
	if !bytes.Contains(logs.Bytes(), []byte("redis cache unavailable")) {
		t.Errorf("fallback should be logged, got %q", logs.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "fc")); err != nil {
		t.Errorf("file cache dir not created: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	if err := run(t, "cache", "path"); err != nil {
		t.Errorf("cache path: %v", err)
	}
	if err := run(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear: %v", err)
	}
}
