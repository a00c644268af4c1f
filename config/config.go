package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"clipforge/internal/appdirs"
)

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type AppConfig struct {
	Proxy       string   `toml:"proxy"`
	ParsedProxy *url.URL `toml:"-"`

	// MaxSourceDurationSec rejects sources longer than this at submission.
	MaxSourceDurationSec float64 `toml:"max_source_duration_sec"`
}

type OpenaiCompatibleConfig struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type LocalWhisperConfig struct {
	BinaryPath string `toml:"binary_path"`
	ModelPath  string `toml:"model_path"`
}

type TranscribeConfig struct {
	// Provider selects the transcript backend: "openai" or "localwhisper".
	Provider     string                 `toml:"provider"`
	Openai       OpenaiCompatibleConfig `toml:"openai"`
	LocalWhisper LocalWhisperConfig     `toml:"localwhisper"`
}

type ScoreConfig struct {
	// Provider selects the clip scorer: "heuristic" or "llm".
	Provider string `toml:"provider"`
}

type QueueConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Concurrency   int    `toml:"concurrency"`
}

type Config struct {
	Server     ServerConfig           `toml:"server"`
	App        AppConfig              `toml:"app"`
	Transcribe TranscribeConfig       `toml:"transcribe"`
	Score      ScoreConfig            `toml:"score"`
	Llm        OpenaiCompatibleConfig `toml:"llm"`
	Queue      QueueConfig            `toml:"queue"`
}

var Conf = defaultConfig()

var resolveConfigPath = func() (string, error) {
	paths, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8888,
		},
		App: AppConfig{
			MaxSourceDurationSec: 3600,
		},
		Transcribe: TranscribeConfig{
			Provider: "openai",
		},
		Score: ScoreConfig{
			Provider: "heuristic",
		},
		Queue: QueueConfig{
			RedisAddr:   "localhost:6379",
			Concurrency: 3,
		},
	}
}

// LoadOrCreateConfig reads the toml config, writing a default file first if
// none exists. The returned bool reports whether a new file was created.
func LoadOrCreateConfig() (bool, error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		Conf = defaultConfig()
		if err := SaveConfig(); err != nil {
			return false, fmt.Errorf("write default config: %w", err)
		}
		return true, nil
	}

	if _, err := toml.DecodeFile(configPath, &Conf); err != nil {
		return false, fmt.Errorf("decode config %s: %w", configPath, err)
	}
	return false, nil
}

// SaveConfig writes the current Conf to the resolved config path.
func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

// CheckConfig validates values that would otherwise fail deep inside a job.
func CheckConfig() error {
	if Conf.App.Proxy != "" {
		parsed, err := url.Parse(Conf.App.Proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy address %q: %w", Conf.App.Proxy, err)
		}
		Conf.App.ParsedProxy = parsed
	}

	if Conf.App.MaxSourceDurationSec <= 0 {
		Conf.App.MaxSourceDurationSec = 3600
	}

	switch strings.TrimSpace(Conf.Transcribe.Provider) {
	case "openai", "localwhisper":
	default:
		return fmt.Errorf("unknown transcribe provider %q", Conf.Transcribe.Provider)
	}

	switch strings.TrimSpace(Conf.Score.Provider) {
	case "heuristic", "llm":
	default:
		return fmt.Errorf("unknown score provider %q", Conf.Score.Provider)
	}

	return nil
}
