package store

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// EnvPrefix prefixes every environment override, e.g. MEETING_COUNTDOWN_POLL_INTERVAL.
const EnvPrefix = "MEETING_COUNTDOWN"

// ConfigStore handles configuration persistence using viper
type ConfigStore struct {
	v    *viper.Viper
	path string
}

// DefaultPath returns ~/.config/meeting-countdown/config.yaml, or "" if no config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "meeting-countdown", "config.yaml")
}

// NewConfigStore creates a store backed by path. An empty path uses DefaultPath.
func NewConfigStore(v *viper.Viper, path string) *ConfigStore {
	if v == nil {
		v = viper.New()
	}
	if path == "" {
		path = DefaultPath()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &ConfigStore{v: v, path: path}
}

// SetDefaults registers the fallback value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("auto_start", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("poll_interval", 30*time.Second)
	v.SetDefault("dispatch_timeout", 30*time.Second)
	v.SetDefault("dispatchers", []string{"shortcuts"})
	v.SetDefault("shortcut_name", "StartClockTimer")
	v.SetDefault("chime_file", "")
	v.SetDefault("labels_file", "")
	v.SetDefault("ical_sources", []models.ICalSource{})
	v.SetDefault("allow_24h_labels", false)
	v.SetDefault("inherit_meridiem", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("daily_at", "")
}

// Viper returns the underlying viper instance, for binding flags.
func (cs *ConfigStore) Viper() *viper.Viper {
	return cs.v
}

// Path returns the config file location.
func (cs *ConfigStore) Path() string {
	return cs.path
}

// Load reads the config file if it exists and applies env overrides and defaults.
func (cs *ConfigStore) Load() (*models.Config, error) {
	if cs.path != "" {
		cs.v.SetConfigFile(cs.path)
		if err := cs.v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrapf(err, "read config %s", cs.path)
			}
		}
	}

	config := &models.Config{}
	if err := cs.v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if config.PollInterval <= 0 {
		return nil, errors.Errorf("poll_interval must be positive, got %s", config.PollInterval)
	}
	if config.DispatchTimeout <= 0 {
		return nil, errors.Errorf("dispatch_timeout must be positive, got %s", config.DispatchTimeout)
	}
	return config, nil
}

// Save writes config to the store's path, creating the directory if needed.
func (cs *ConfigStore) Save(config *models.Config) error {
	if cs.path == "" {
		return errors.New("no config path")
	}
	if err := os.MkdirAll(filepath.Dir(cs.path), 0o755); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	out := viper.New()
	out.Set("auto_start", config.AutoStart)
	out.Set("log_level", config.LogLevel)
	out.Set("poll_interval", config.PollInterval.String())
	out.Set("dispatch_timeout", config.DispatchTimeout.String())
	out.Set("dispatchers", config.Dispatchers)
	out.Set("shortcut_name", config.ShortcutName)
	out.Set("chime_file", config.ChimeFile)
	out.Set("labels_file", config.LabelsFile)
	out.Set("allow_24h_labels", config.Allow24hLabels)
	out.Set("inherit_meridiem", config.InheritMeridiem)
	out.Set("metrics_addr", config.MetricsAddr)
	out.Set("daily_at", config.DailyAt)

	sources := make([]map[string]string, 0, len(config.ICalSources))
	for _, s := range config.ICalSources {
		sources = append(sources, map[string]string{"id": s.ID, "name": s.Name, "url": s.URL})
	}
	out.Set("ical_sources", sources)

	if err := out.WriteConfigAs(cs.path); err != nil {
		return errors.Wrapf(err, "write config %s", cs.path)
	}
	return nil
}
