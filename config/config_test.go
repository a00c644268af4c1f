package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func setConfigPathForTest(t *testing.T, path string) {
	t.Helper()
	old := resolveConfigPath
	resolveConfigPath = func() (string, error) { return path, nil }
	t.Cleanup(func() { resolveConfigPath = old })
}

func TestLoadOrCreateConfigMissingCreatesDefault(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config", "config.toml")
	setConfigPathForTest(t, configPath)

	if _, err := os.Stat(configPath); err == nil {
		t.Fatalf("expected config file to be missing")
	}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if !created {
		t.Fatalf("LoadOrCreateConfig() created=false, want true")
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode created config: %v", err)
	}
	if got.Server.Host != "127.0.0.1" {
		t.Fatalf("default server host = %q, want %q", got.Server.Host, "127.0.0.1")
	}
	if got.Server.Port != 8888 {
		t.Fatalf("default server port = %d, want %d", got.Server.Port, 8888)
	}
	if got.App.MaxSourceDurationSec != 3600 {
		t.Fatalf("default max source duration = %v, want 3600", got.App.MaxSourceDurationSec)
	}
	if got.Transcribe.Provider != "openai" {
		t.Fatalf("default transcribe provider = %q, want %q", got.Transcribe.Provider, "openai")
	}
	if got.Score.Provider != "heuristic" {
		t.Fatalf("default score provider = %q, want %q", got.Score.Provider, "heuristic")
	}
}

func TestLoadOrCreateConfigReadsExisting(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.toml")
	setConfigPathForTest(t, configPath)

	content := "[server]\nhost = \"0.0.0.0\"\nport = 9000\n\n[score]\nprovider = \"llm\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if created {
		t.Fatalf("LoadOrCreateConfig() created=true, want false")
	}
	if Conf.Server.Port != 9000 {
		t.Fatalf("server port = %d, want 9000", Conf.Server.Port)
	}
	if Conf.Score.Provider != "llm" {
		t.Fatalf("score provider = %q, want %q", Conf.Score.Provider, "llm")
	}
}

func TestSaveConfigCreatesParentDirs(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "deep", "nest", "config.toml")
	setConfigPathForTest(t, configPath)

	Conf = defaultConfig()
	Conf.Server.Port = 9999

	if err := SaveConfig(); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
}

func TestCheckConfigRejectsUnknownProviders(t *testing.T) {
	Conf = defaultConfig()
	Conf.Transcribe.Provider = "whisperkit"
	if err := CheckConfig(); err == nil {
		t.Fatalf("CheckConfig() accepted unknown transcribe provider")
	}

	Conf = defaultConfig()
	Conf.Score.Provider = "random"
	if err := CheckConfig(); err == nil {
		t.Fatalf("CheckConfig() accepted unknown score provider")
	}
}
