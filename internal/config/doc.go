// Package config provides configuration loading and path management for
// FraudLens.
//
// The effective configuration is assembled in layers, each overriding the
// one below it:
//
//  1. Built-in defaults (Defaults)
//  2. Global config file (~/.config/fraudlens/fraudlens.json or .jsonc)
//  3. Project config file (fraudlens.json or .jsonc in the working
//     directory)
//  4. FRAUDLENS_CONFIG file override
//  5. Environment variables
//
// A .env file in the working directory is loaded into the process
// environment before any other layer, so both config file interpolation
// and the environment overlay see its values. Variables already set in
// the real environment always win over .env.
//
// # Supported Formats
//
// Config files may be plain JSON or JSONC (JSON with comments, processed
// with tidwall/jsonc). Files present at multiple locations are merged:
// fields present in a later file override the accumulated value, and
// provider entries merge by key, so a project file can add one provider
// without restating the global ones.
//
// # Variable Interpolation
//
// Config files support two placeholder forms:
//   - {env:VAR_NAME} expands to the environment variable's value
//   - {file:path} expands to the file's contents, escaped for JSON;
//     paths may be absolute, relative to the config file, or ~/-prefixed
//
// Interpolation keeps secrets out of config files:
//
//	{
//	  "model": "openai/gpt-4o",
//	  "provider": {
//	    "openai": {"apiKey": "{env:OPENAI_API_KEY}"},
//	    "anthropic": {"apiKey": "{file:~/.secrets/anthropic.key}"}
//	  },
//	  "bankData": {"baseURL": "https://records.internal.example"}
//	}
//
// # Environment Overrides
//
// Every config field can be set through a FRAUDLENS_-prefixed variable,
// processed with kelseyhightower/envconfig. Section and field names join
// with underscores:
//
//	FRAUDLENS_SERVER_PORT=9090
//	FRAUDLENS_LOG_LEVEL=debug
//	FRAUDLENS_MODEL=gemini/gemini-2.5-flash
//	FRAUDLENS_RESILIENCE_MAX_ATTEMPTS=3
//	FRAUDLENS_RESILIENCE_BREAKER_COOLDOWN=45s
//	FRAUDLENS_BANKDATA_BASE_URL=https://records.internal.example
//	FRAUDLENS_BANKDATA_NOT_FOUND_TRANSIENT=true
//	FRAUDLENS_PROFILES=/etc/fraudlens/profiles
//
// Duration fields accept Go duration strings ("30s", "2m").
//
// The conventional provider key variables (OPENAI_API_KEY,
// GEMINI_API_KEY, ARK_API_KEY, ANTHROPIC_API_KEY) are also recognized:
// a set key creates or completes that provider's config entry, so
// exporting a single key is enough to run with one backend and no
// config file at all.
//
// # Path Management
//
// The Paths type exposes XDG Base Directory compliant locations
// (~/.config/fraudlens, ~/.local/share/fraudlens, and so on), adapted to
// APPDATA on Windows. The default analysis profile directory is
// <config>/profiles.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	logging.Init(logging.Config{Level: logging.ParseLevel(cfg.Log.Level)})
package config
