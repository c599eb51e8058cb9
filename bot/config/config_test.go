package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
telegram:
  token: "123:abc"
  owner_id: 42
bot:
  developer_user: "@wall_dev"
pexels:
  api_key: "px"
database:
  path: "%s"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bot.db")
	cfg, err := Load(writeConfig(t, strings.Replace(fullYAML, "%s", dbPath, 1)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cooldown() != 1500*time.Millisecond {
		t.Fatalf("Cooldown = %v", cfg.Cooldown())
	}
	if cfg.CacheTTL() != 300*time.Second || cfg.Cache.Driver != CacheMemory || cfg.Cache.MaxEntries != DefaultCacheMaxEntries {
		t.Fatalf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.SearchTimeout() != 10*time.Second {
		t.Fatalf("SearchTimeout = %v", cfg.SearchTimeout())
	}
	if cfg.DeveloperURL() != "https://t.me/wall_dev" {
		t.Fatalf("DeveloperURL = %q", cfg.DeveloperURL())
	}
	if cfg.CoreConfig().Telegram.OwnerID != 42 || cfg.Database.Driver != "sqlite" {
		t.Fatalf("core = %+v db = %+v", cfg.CoreConfig().Telegram, cfg.Database)
	}
}

func TestLoadEnvSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("OWNER_ID", "7")
	t.Setenv("PEXELS_API_KEY", "env-px")
	t.Setenv("DEVELOPER_USER", "someone")

	cfg, err := Load(writeConfig(t, "logging:\n  level: info\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" || cfg.Telegram.OwnerID != 7 || cfg.Pexels.APIKey != "env-px" {
		t.Fatalf("env not applied: %+v %+v", cfg.Telegram, cfg.Pexels)
	}
	if cfg.DeveloperURL() != "https://t.me/someone" {
		t.Fatalf("DeveloperURL = %q", cfg.DeveloperURL())
	}
}

func TestLoadMissingSecretsFails(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram:\n  token: \"t\"\n  owner_id: 1\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, field := range []string{"APIKey", "DeveloperUser"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q does not mention %s", err, field)
		}
	}
}

func TestRedisDriverNeedsAddr(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Driver: "redis"}}
	if err := cfg.Normalize(); err == nil {
		t.Fatal("expected error for redis without addr")
	}
}
