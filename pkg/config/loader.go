package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/logging"
	"github.com/arthur-debert/homer/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable homer reads
const EnvPrefix = "HOMER_"

// EnvConfigFile names a config file to use instead of the XDG one
const EnvConfigFile = EnvPrefix + "CONFIG"

// LoadOptions controls which sources Load reads
type LoadOptions struct {
	// ConfigFile replaces the user config file and must exist
	ConfigFile string

	// WorkDir is searched for .homer.toml; defaults to "."
	WorkDir string

	// Overrides are applied last, keyed like the config file ("scripts.dir")
	Overrides map[string]interface{}
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := load(LoadOptions{}, false)
	if err != nil {
		// The embedded defaults are part of the binary
		panic(err)
	}
	return cfg
}

// Load builds the effective configuration from every source
func Load(opts LoadOptions) (*Config, error) {
	return load(opts, true)
}

func load(opts LoadOptions, external bool) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")
	var sources []string

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	if external {
		userFile, required := opts.ConfigFile, true
		if userFile == "" {
			userFile = os.Getenv(EnvConfigFile)
		}
		if userFile == "" {
			userFile, required = paths.ConfigFile(), false
		}

		workDir := opts.WorkDir
		if workDir == "" {
			workDir = "."
		}

		candidates := []struct {
			path     string
			required bool
		}{
			{userFile, required},
			{filepath.Join(workDir, paths.LocalConfigFileName), false},
		}
		for _, c := range candidates {
			loaded, err := loadFile(k, c.path, c.required)
			if err != nil {
				return nil, err
			}
			if loaded {
				sources = append(sources, c.path)
				logger.Debug().Str("path", c.path).Msg("Loaded config file")
			}
		}

		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Stringer("config", &cfg).Msg("Configuration loaded")
	return &cfg, nil
}

// loadFile merges a TOML file into k. A missing optional file is skipped.
func loadFile(k *koanf.Koanf, path string, required bool) (bool, error) {
	expanded, err := paths.ExpandHome(path)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(expanded); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !required {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", expanded).
			WithDetail("path", expanded)
	}

	if err := k.Load(file.Provider(expanded), toml.Parser()); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", expanded).
			WithDetail("path", expanded)
	}
	return true, nil
}

// envKey maps HOMER_SCRIPTS__TIMEOUT to scripts.timeout and
// HOMER_IGNORE_FILE to ignore_file
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
