package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, databaseDriverEnv, databaseDSNEnv, openAIAPIKeyEnv,
		chatGPTAPIKeyEnv, chatGPTModelEnv, concurrencyEnv, logLevelEnv,
		telegramTokenEnv, telegramChatIDEnv,
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load("")
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.Importer.Concurrency != 3 {
		t.Fatalf("expected concurrency 3, got %d", cfg.Importer.Concurrency)
	}
	if cfg.ChatGPT.Model != "gpt-4o-mini" || cfg.ChatGPT.Temperature != 0.2 || cfg.ChatGPT.MaxTokens != 400 {
		t.Fatalf("unexpected summarizer defaults: %+v", cfg.ChatGPT)
	}
	if cfg.Fetcher.TimeoutSeconds != 30 {
		t.Fatalf("expected 30s fetch timeout, got %d", cfg.Fetcher.TimeoutSeconds)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC location, got %s", cfg.Scheduler.Location())
	}
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
database:
  driver: Bolt
  dsn: /tmp/pubs.bolt
importer:
  concurrency: 7
chatgpt:
  provider: langchain
  model: gpt-4o
scheduler:
  timezone: Europe/Berlin
`)

	cfg := Load(path)
	if cfg.Database.Driver != DriverBolt || cfg.Database.DSN != "/tmp/pubs.bolt" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Importer.Concurrency != 7 {
		t.Fatalf("expected concurrency 7, got %d", cfg.Importer.Concurrency)
	}
	if cfg.ChatGPT.Provider != ProviderLangChain || cfg.ChatGPT.Model != "gpt-4o" {
		t.Fatalf("unexpected chatgpt config: %+v", cfg.ChatGPT)
	}
	if cfg.ChatGPT.MaxTokens != 400 {
		t.Fatalf("expected untouched defaults to survive merge, got %d", cfg.ChatGPT.MaxTokens)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %s", cfg.Scheduler.Location())
	}
}

func TestLoadPathFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, writeConfig(t, "logging:\n  level: warn\n"))

	if cfg := Load(""); cfg.Logging.Level != "warn" {
		t.Fatalf("expected level from env-referenced file, got %q", cfg.Logging.Level)
	}
}

func TestLoadInvalidFileFallsBack(t *testing.T) {
	clearEnv(t)

	cfg := Load(writeConfig(t, "database: [unclosed"))
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected defaults after parse error, got %+v", cfg.Database)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(databaseDriverEnv, "POSTGRES")
	t.Setenv(databaseDSNEnv, "postgres://u:p@db/pubs")
	t.Setenv(openAIAPIKeyEnv, "openai-key")
	t.Setenv(chatGPTAPIKeyEnv, "chatgpt-key")
	t.Setenv(concurrencyEnv, "5")
	t.Setenv(logLevelEnv, "debug")
	t.Setenv(telegramTokenEnv, "token")
	t.Setenv(telegramChatIDEnv, "42")

	cfg := Load("")
	if cfg.Database.Driver != DriverPostgres || cfg.Database.DSN != "postgres://u:p@db/pubs" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.ChatGPT.APIKey != "chatgpt-key" {
		t.Fatalf("expected CHATGPT_API_KEY to take precedence, got %q", cfg.ChatGPT.APIKey)
	}
	if cfg.Importer.Concurrency != 5 || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected overrides: %+v %+v", cfg.Importer, cfg.Logging)
	}
	if !cfg.Notifications.Telegram.Enabled() {
		t.Fatalf("expected telegram to be enabled")
	}
}

func TestEnvConcurrencyIgnoresGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv(concurrencyEnv, "many")

	if cfg := Load(""); cfg.Importer.Concurrency != 3 {
		t.Fatalf("expected default concurrency, got %d", cfg.Importer.Concurrency)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := defaultConfig()
	valid.ChatGPT.APIKey = "key"
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing key", func(c *Config) { c.ChatGPT.APIKey = "" }, "api key"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "database driver"},
		{"unknown provider", func(c *Config) { c.ChatGPT.Provider = "carrier-pigeon" }, "provider"},
		{"zero concurrency", func(c *Config) { c.Importer.Concurrency = 0 }, "concurrency"},
	}

	for _, tc := range testCases {
		cfg := valid
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}
