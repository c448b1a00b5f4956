package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	cfg, info, err := LoadConfigFrom(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Path != "" || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 20262 || cfg.Upload.MaxBytes != 20<<20 || cfg.ImportTimeout() != time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFrom_TomlAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `
[server]
port = 9000

[log]
level = "debug"
format = "console"

[import]
timeout_seconds = 5
concurrency = 2

[upload]
max_bytes = 1024
`)
	t.Setenv(EnvPort, "")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvDataDir, "")

	cfg, info, err := LoadConfigFrom(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !info.PortSpecified || cfg.Server.Port != 9000 {
		t.Fatalf("port from toml expected: cfg=%+v info=%+v", cfg.Server, info)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Fatalf("env should override log level: %+v", cfg.Log)
	}
	if cfg.ImportTimeout() != 5*time.Second || cfg.Import.Concurrency != 2 || cfg.Upload.MaxBytes != 1024 {
		t.Fatalf("unexpected import/upload config: %+v %+v", cfg.Import, cfg.Upload)
	}
	if cfg.Data.DBName != "visitas.db" {
		t.Fatalf("unset keys keep defaults, got %q", cfg.Data.DBName)
	}
}

func TestLoadConfigFrom_DotEnv(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "store")
	writeFile(t, filepath.Join(dir, ".env"), EnvPort+"=7777\n"+EnvDataDir+"="+dataDir+"\n")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
	// godotenv 只设置未定义的变量
	_ = os.Unsetenv(EnvPort)
	_ = os.Unsetenv(EnvDataDir)

	cfg, info, err := LoadConfigFrom(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7777 || !info.PortSpecified {
		t.Fatalf("port from .env expected, got %d", cfg.Server.Port)
	}
	if ResolveDataDir(cfg) != dataDir {
		t.Fatalf("absolute data dir should be used as-is, got %s", ResolveDataDir(cfg))
	}

	got, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(got, "exports")); err != nil {
		t.Fatalf("exports dir missing: %v", err)
	}
	if DBPath(cfg) != filepath.Join(dataDir, "visitas.db") {
		t.Fatalf("unexpected db path: %s", DBPath(cfg))
	}
}

func TestLoadConfigFrom_InvalidPort(t *testing.T) {
	t.Setenv(EnvPort, "eighty")

	_, _, err := LoadConfigFrom(t.TempDir())
	var envErr *EnvError
	if !errors.As(err, &envErr) || envErr.Key != EnvPort {
		t.Fatalf("want EnvError for %s, got %v", EnvPort, err)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Fatalf("should unwrap to strconv.ErrSyntax, got %v", err)
	}
}

func TestImportTimeout_Disabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Import.TimeoutSeconds = 0
	if cfg.ImportTimeout() != 0 {
		t.Fatalf("zero timeout should disable the limit")
	}
}
