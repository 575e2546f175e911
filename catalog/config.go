package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/codec"
	"github.com/hupe1980/retrieval/index"
	"github.com/hupe1980/retrieval/schema"
	"github.com/hupe1980/retrieval/snapshot"
)

// Config is the file form of the catalog options.
//
//	schema: person.yaml
//	log:
//	  level: info
//	  format: json
//	id_probes: 64
//	analyzer:
//	  token_filters: [to_lower]
//	reindex:
//	  records_per_sec: 500
//	  workers: 4
//	snapshot:
//	  codec: msgpack
//	  compression: zstd
//	resolver_cache: 4096
type Config struct {
	// Schema is the path of the schema file, relative to the config file.
	Schema string `yaml:"schema"`

	Log           LogConfig      `yaml:"log"`
	IDProbes      int            `yaml:"id_probes"`
	Analyzer      AnalyzerConfig `yaml:"analyzer"`
	Reindex       ReindexConfig  `yaml:"reindex"`
	Snapshot      SnapshotConfig `yaml:"snapshot"`
	ResolverCache int            `yaml:"resolver_cache"`

	dir string
}

// LogConfig configures the catalog logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error. Empty disables logging.
	Level string `yaml:"level"`
	// Format is text (default) or json.
	Format string `yaml:"format"`
}

// AnalyzerConfig configures the text index analyzer.
type AnalyzerConfig struct {
	// TokenFilters are registered bleve token filter names applied after
	// the unicode tokenizer.
	TokenFilters []string `yaml:"token_filters"`
}

// ReindexConfig configures the ReindexAll throttle.
type ReindexConfig struct {
	RecordsPerSec int `yaml:"records_per_sec"`
	Workers       int `yaml:"workers"`
}

// SnapshotConfig configures Save.
type SnapshotConfig struct {
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes and validates a YAML config. Unknown keys are
// rejected.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return retrieval.InvalidArgumentf("log.format must be 'text' or 'json', got %s", c.Log.Format)
	}
	if c.IDProbes < 0 {
		return retrieval.InvalidArgumentf("id_probes must be non-negative, got %d", c.IDProbes)
	}
	if c.Reindex.RecordsPerSec < 0 || c.Reindex.Workers < 0 {
		return retrieval.InvalidArgumentf("reindex limits must be non-negative")
	}
	if c.Snapshot.Codec != "" {
		if _, ok := codec.ByName(c.Snapshot.Codec); !ok {
			return retrieval.InvalidArgumentf("snapshot.codec must be one of %v, got %s", codec.Names(), c.Snapshot.Codec)
		}
	}
	if _, err := snapshot.ParseCompression(c.Snapshot.Compression); err != nil {
		return err
	}
	if c.ResolverCache < 0 {
		return retrieval.InvalidArgumentf("resolver_cache must be non-negative, got %d", c.ResolverCache)
	}
	return nil
}

// Options converts the config into catalog options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if c.Log.Level != "" {
		level, err := parseLevel(c.Log.Level)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(c.Log.Format, "json") {
			opts = append(opts, WithLogger(retrieval.NewJSONLogger(level)))
		} else {
			opts = append(opts, WithLogLevel(level))
		}
	}
	if c.IDProbes > 0 {
		opts = append(opts, WithMaxProbes(c.IDProbes))
	}
	if len(c.Analyzer.TokenFilters) > 0 {
		a, err := index.NewBleveAnalyzer(c.Analyzer.TokenFilters...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAnalyzer(a))
	}
	if c.Reindex.RecordsPerSec > 0 || c.Reindex.Workers > 0 {
		opts = append(opts, WithReindexRate(c.Reindex.RecordsPerSec, c.Reindex.Workers))
	}
	if c.Snapshot.Codec != "" {
		cd, _ := codec.ByName(c.Snapshot.Codec)
		opts = append(opts, WithSnapshotCodec(cd))
	}
	comp, err := snapshot.ParseCompression(c.Snapshot.Compression)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithSnapshotCompression(comp))
	if c.ResolverCache > 0 {
		opts = append(opts, WithResolverCache(c.ResolverCache))
	}
	return opts, nil
}

// LoadSchema loads the schema file the config names.
func (c *Config) LoadSchema() (*schema.Schema, error) {
	if c.Schema == "" {
		return nil, retrieval.InvalidArgumentf("config names no schema file")
	}
	path := c.Schema
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return schema.LoadFile(path)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, retrieval.InvalidArgumentf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", s)
}
