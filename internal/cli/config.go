package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/locations/internal/paths"
	"github.com/mesh-intelligence/locations/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "LOCATIONS"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# locations configuration

# Store backend: memory or sqlite. Both keep data in memory only.
backend: memory

# KudaGo API base URL.
base_url: https://kudago.com

executors:
  # Workers running the category fetch.
  fixed_pool_size: 4
  # Workers running timeout watchers.
  scheduled_pool_size: 1
  # How long a category fetch may take.
  duration: 30s

log:
  level: info
  # console or json
  format: console
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, then applies LOCATIONS_* environment overrides. It creates the
// directory and a default config.yaml on first run.
func loadConfig(flags *rootFlags) (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(paths.ConfigFile(configDir)); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v, types.DefaultConfig())
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config in %s: %w", paths.ConfigFile(configDir), err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply to keys
// absent from the file.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("executors.fixed_pool_size", d.Executors.FixedPoolSize)
	v.SetDefault("executors.scheduled_pool_size", d.Executors.ScheduledPoolSize)
	v.SetDefault("executors.duration", d.Executors.Duration)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// ensureDefaultConfigFile writes the default config.yaml unless it exists.
func ensureDefaultConfigFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after applying config.yaml and LOCATIONS_* environment overrides.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
}
