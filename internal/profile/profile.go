// Package profile loads the YAML analysis profiles that steer triage
// prompts, and keeps them fresh as the profile directory changes.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fraudlens-ai/fraudlens/internal/logging"
)

// DefaultName is the profile applied when a request names none.
const DefaultName = "triage"

// builtin keeps analysis working with no profile directory configured.
var builtin = Profile{
	Name:        DefaultName,
	Description: "General fraud-alert triage",
	SystemPrompt: "You are FraudLens, a fraud-alert triage assistant for banking operations.\n" +
		"For each alert, weigh the evidence for and against fraud, then answer with:\n" +
		"1. Verdict: likely fraud, likely legitimate, or needs investigation.\n" +
		"2. Key evidence: the observations that carry the call.\n" +
		"3. Next step: the single most useful check for the analyst.",
}

// Profile is one analysis framing: a named system prompt.
type Profile struct {
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
	SystemPrompt string `yaml:"systemPrompt" json:"systemPrompt"`
}

// Registry holds the loaded profiles. The built-in triage profile is
// always present; a file with the same name overrides it.
type Registry struct {
	mu       sync.RWMutex
	dir      string
	profiles map[string]Profile
}

// NewRegistry creates a registry over dir. An empty dir gives a registry
// that serves only the built-in profile.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:      dir,
		profiles: map[string]Profile{builtin.Name: builtin},
	}
}

// Load re-reads every .yaml/.yml file in the directory and replaces the
// loaded set. Files that fail to parse are skipped with a warning so one
// bad profile never takes down the rest.
func (r *Registry) Load() error {
	if r.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug().Str("dir", r.dir).Msg("Profile directory does not exist")
			return nil
		}
		return fmt.Errorf("read profile directory: %w", err)
	}

	loaded := map[string]Profile{builtin.Name: builtin}
	for _, entry := range entries {
		if entry.IsDir() || !isProfileFile(entry.Name()) {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		p, err := readProfile(path)
		if err != nil {
			logging.Warn().Str("file", path).Err(err).Msg("Skipping profile")
			continue
		}
		loaded[p.Name] = p
	}

	r.mu.Lock()
	r.profiles = loaded
	r.mu.Unlock()

	logging.Info().Int("count", len(loaded)).Str("dir", r.dir).Msg("Profiles loaded")
	return nil
}

// readProfile parses one profile file. A missing name falls back to the
// file's base name; a missing system prompt is an error.
func readProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	if p.Name == "" {
		base := filepath.Base(path)
		p.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		return Profile{}, fmt.Errorf("profile %q has no system prompt", p.Name)
	}
	return p, nil
}

// Get returns a profile by name.
func (r *Registry) Get(name string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	return p, ok
}

// Default returns the triage profile, including any file override.
func (r *Registry) Default() Profile {
	p, _ := r.Get(DefaultName)
	return p
}

// List returns all profiles sorted by name.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the loaded profile names sorted.
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}

// Dir returns the profile directory, empty when none is configured.
func (r *Registry) Dir() string { return r.dir }

func isProfileFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
