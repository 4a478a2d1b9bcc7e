package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the escrowd daemon configuration. Values come from an optional
// YAML file, then environment overrides.
type Config struct {
	StoreDriver string `yaml:"storeDriver"` // memory | postgres
	PGDSN       string `yaml:"pgDSN"`
	Seed        *bool  `yaml:"seedFixtures"`
	Transport   string `yaml:"transport"` // stdio | http
	ListenAddr  string `yaml:"listenAddr"`
	MetricsAddr string `yaml:"metricsAddr"` // empty disables the metrics endpoint
}

// Default returns the daemon defaults: memory store with demo fixtures,
// stdio transport, metrics on :9091.
func Default() Config {
	seed := true
	return Config{
		StoreDriver: "memory",
		Seed:        &seed,
		Transport:   "stdio",
		ListenAddr:  ":3002",
		MetricsAddr: ":9091",
	}
}

// Load reads the config file at path (or the default candidate locations
// when path is empty), then applies environment overrides. Missing or
// unreadable files fall back to defaults.
func Load(path string) Config {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if path != "" {
		candidates = append(candidates, path)
	} else {
		candidates = append(candidates, "configs/escrowd.yaml", "escrowd.yaml")
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merge(&cfg, parsed)
		break
	}

	applyEnvOverrides(&cfg)
	return cfg
}

// SeedFixtures resolves the tri-state seed flag.
func (c Config) SeedFixtures() bool {
	return c.Seed == nil || *c.Seed
}

func merge(dst *Config, src Config) {
	if src.StoreDriver != "" {
		dst.StoreDriver = src.StoreDriver
	}
	if src.PGDSN != "" {
		dst.PGDSN = src.PGDSN
	}
	if src.Seed != nil {
		dst.Seed = src.Seed
	}
	if src.Transport != "" {
		dst.Transport = src.Transport
	}
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.MetricsAddr != "" {
		dst.MetricsAddr = src.MetricsAddr
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ESCROWD_STORE_DRIVER"); v != "" {
		cfg.StoreDriver = v
	}
	if v := os.Getenv("ESCROWD_PG_DSN"); v != "" {
		cfg.PGDSN = v
	}
	if v := os.Getenv("ESCROWD_SEED_FIXTURES"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Seed = &parsed
		}
	}
	if v := os.Getenv("ESCROWD_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("ESCROWD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("ESCROWD_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
}
