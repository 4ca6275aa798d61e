package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tidwall/jsonc"

	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// envPrefix namespaces environment overrides, e.g. FRAUDLENS_SERVER_PORT
// or FRAUDLENS_RESILIENCE_MAX_ATTEMPTS.
const envPrefix = "fraudlens"

// providerKeyEnvs maps provider IDs to their conventional API key
// variables. A set variable guarantees the provider has a config entry,
// so exporting OPENAI_API_KEY alone is enough to enable that backend.
var providerKeyEnvs = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"ark":       "ARK_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// Defaults returns the baseline configuration before any file or
// environment layer is applied.
func Defaults() *types.Config {
	return &types.Config{
		Server: types.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			ReadTimeout: 30 * time.Second,
			// No write timeout; the event stream holds its response open.
		},
		Log: types.LogConfig{
			Level: "info",
		},
		Provider: make(map[string]types.ProviderConfig),
		Profiles: GetPaths().ProfilesPath(),
	}
}

// Load assembles the effective configuration for a working directory.
// Layers, lowest to highest precedence:
//
//  1. Built-in defaults
//  2. Global config (<XDG config>/fraudlens/fraudlens.json or .jsonc)
//  3. Project config (<directory>/fraudlens.json or .jsonc)
//  4. FRAUDLENS_CONFIG file override
//  5. Environment variables (FRAUDLENS_* plus provider key variables)
//
// A .env file in the working directory is folded into the environment
// first and never overrides variables that are already set.
func Load(directory string) (*types.Config, error) {
	config := Defaults()

	// .env before everything else so both {env:} interpolation and the
	// environment overlay see its values.
	if directory != "" {
		_ = godotenv.Load(filepath.Join(directory, ".env"))
	} else {
		_ = godotenv.Load()
	}

	// Track loaded files to avoid applying the same one twice.
	loaded := make(map[string]bool)
	loadOnce := func(path string) error {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		if loaded[absPath] {
			return nil
		}
		if err := loadConfigFile(path, config); err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
		loaded[absPath] = true
		return nil
	}

	globalDir := GetPaths().Config
	for _, name := range []string{"fraudlens.json", "fraudlens.jsonc"} {
		if err := loadOnce(filepath.Join(globalDir, name)); err != nil {
			return nil, err
		}
	}

	if directory != "" {
		for _, name := range []string{"fraudlens.json", "fraudlens.jsonc"} {
			if err := loadOnce(filepath.Join(directory, name)); err != nil {
				return nil, err
			}
		}
	}

	// An explicit FRAUDLENS_CONFIG must exist; a typo'd path failing
	// silently would be miserable to debug.
	if path := os.Getenv("FRAUDLENS_CONFIG"); path != "" {
		if err := loadConfigFile(path, config); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, config); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}
	applyProviderKeyEnvs(config)

	return config, nil
}

// loadConfigFile folds one JSONC file into config. Fields present in the
// file override the accumulated value; provider entries merge by key.
func loadConfigFile(path string, config *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Strip JSONC comments, then expand placeholders.
	data = jsonc.ToJSON(data)
	data = interpolate(data, filepath.Dir(path))

	return json.Unmarshal(data, config)
}

var (
	envPattern  = regexp.MustCompile(`\{env:([^}]+)\}`)
	filePattern = regexp.MustCompile(`\{file:([^}]+)\}`)
)

// interpolate expands {env:VAR} and {file:path} placeholders in raw
// config text. File contents are escaped for embedding in a JSON string.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})

	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		path := filePattern.FindStringSubmatch(match)[1]
		if strings.HasPrefix(path, "~/") {
			path = filepath.Join(os.Getenv("HOME"), path[2:])
		} else if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return match // keep the placeholder when the file is missing
		}

		// Key files end with a newline that must not reach the value.
		return jsonEscape(strings.TrimRight(string(content), "\r\n"))
	})

	return []byte(str)
}

// jsonEscape escapes s for embedding inside a JSON string literal.
func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b[1 : len(b)-1])
}

// applyProviderKeyEnvs fills provider API keys from their conventional
// environment variables. Explicitly configured keys win.
func applyProviderKeyEnvs(config *types.Config) {
	for id, envVar := range providerKeyEnvs {
		key := os.Getenv(envVar)
		if key == "" {
			continue
		}
		if config.Provider == nil {
			config.Provider = make(map[string]types.ProviderConfig)
		}
		p := config.Provider[id]
		if p.APIKey == "" {
			p.APIKey = key
			config.Provider[id] = p
		}
	}
}
