package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/verilex/verilex/internal/cache"
	"github.com/verilex/verilex/internal/extract"
	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/pipeline"
	"github.com/verilex/verilex/internal/rules"
	"github.com/verilex/verilex/internal/store"
)

// flagDocType converts a --type flag into the request's document type. An
// omitted flag stays empty so the pipeline's classification decides the type;
// only an explicit value is normalized.
func flagDocType(flag string) model.DocumentType {
	if flag == "" {
		return ""
	}
	return model.DocumentType(flag).Normalize()
}

// loadConfig builds the effective config: defaults, then the config file
// (if one was found), then environment conveniences.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if key := viper.GetString("openai_api_key"); key != "" && cfg.Extractor.APIKey == "" {
		cfg.Extractor.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Extractor.APIKey == "" {
		cfg.Extractor.APIKey = key
	}
	if provider := viper.GetString("extractor"); provider != "" {
		cfg.Extractor.Provider = provider
	}

	return cfg, nil
}

// defaultDir returns ~/.verilex/<sub>, falling back to a relative
// directory when the home directory cannot be determined.
func defaultDir(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".verilex/" + sub
	}
	return filepath.Join(home, ".verilex", sub)
}

// buildStore opens the persistent record store used for suspended runs.
// Records never expire; they are removed explicitly or kept for audit.
func buildStore(cfg *model.Config) store.Store {
	dir := cfg.Output.StateDir
	if dir == "" {
		dir = defaultDir("state")
	}
	return store.NewCacheStore(cache.NewDiskCache(dir, -1))
}

// buildRunner wires the full pipeline: extractor (with cache and rate
// limit), rule store, and record store.
func buildRunner(cfg *model.Config) (*pipeline.Runner, error) {
	var extractorCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = defaultDir("cache")
		}
		extractorCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	extractor, err := extract.Build(cfg.Extractor, extractorCache, cfg.Cache.DiskTTL)
	if err != nil {
		return nil, err
	}

	ruleStore, err := rules.Load(cfg.Rules)
	if err != nil {
		return nil, err
	}

	return pipeline.NewRunner(cfg.Scoring, extractor, ruleStore, buildStore(cfg)), nil
}
