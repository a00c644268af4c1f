package appdirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	PortableEnv = "CLIPFORGE_PORTABLE"

	appName        = "Clipforge"
	configFileName = "config.toml"
)

// Paths groups the writable directories the pipeline uses: config, logs,
// job working dirs and the sqlite cache.
type Paths struct {
	Portable   bool
	ConfigDir  string
	ConfigFile string
	LogDir     string
	OutputDir  string
	CacheDir   string
}

type resolveDeps struct {
	goos          string
	getenv        func(string) string
	executable    func() (string, error)
	userConfigDir func() (string, error)
	userCacheDir  func() (string, error)
}

func Resolve() (Paths, error) {
	return resolve(resolveDeps{})
}

func resolve(deps resolveDeps) (Paths, error) {
	if deps.goos == "" {
		deps.goos = runtime.GOOS
	}
	if deps.getenv == nil {
		deps.getenv = os.Getenv
	}
	if deps.executable == nil {
		deps.executable = os.Executable
	}
	if deps.userConfigDir == nil {
		deps.userConfigDir = os.UserConfigDir
	}
	if deps.userCacheDir == nil {
		deps.userCacheDir = os.UserCacheDir
	}

	if isPortableEnabled(deps.getenv(PortableEnv)) {
		executablePath, err := deps.executable()
		if err != nil {
			return Paths{}, err
		}
		dataDir := filepath.Join(filepath.Dir(executablePath), "data")
		paths := layoutUnder(dataDir, filepath.Join(dataDir, "config"))
		paths.Portable = true
		return paths, nil
	}

	if deps.goos == "windows" {
		configRoot, err := nonEmptyDir(deps.userConfigDir, "user config dir")
		if err != nil {
			return Paths{}, err
		}
		cacheRoot, err := nonEmptyDir(deps.userCacheDir, "user cache dir")
		if err != nil {
			return Paths{}, err
		}
		return layoutUnder(filepath.Join(cacheRoot, appName), filepath.Join(configRoot, appName)), nil
	}

	// Everywhere else the working directory is assumed writable.
	return Paths{
		ConfigDir:  "config",
		ConfigFile: filepath.Join("config", configFileName),
		LogDir:     ".",
		OutputDir:  ".",
		CacheDir:   "cache",
	}, nil
}

// layoutUnder places logs, output and cache below dataDir while the config
// file may live under a separate root.
func layoutUnder(dataDir, configDir string) Paths {
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(dataDir, "logs"),
		OutputDir:  filepath.Join(dataDir, "output"),
		CacheDir:   filepath.Join(dataDir, "cache"),
	}
}

func nonEmptyDir(lookup func() (string, error), what string) (string, error) {
	dir, err := lookup()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		return "", errors.New(what + " is empty")
	}
	return dir, nil
}

func isPortableEnabled(value string) bool {
	normalized := strings.TrimSpace(strings.ToLower(value))
	return normalized == "1" || normalized == "true"
}
