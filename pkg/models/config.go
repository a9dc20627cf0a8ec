package models

import "time"

// Config holds application configuration
type Config struct {
	AutoStart       bool          `mapstructure:"auto_start"`
	LogLevel        string        `mapstructure:"log_level"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`    // wait increment between queue checks
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"` // hard limit per dispatch
	Dispatchers     []string      `mapstructure:"dispatchers"`      // shortcuts, window, chime, log
	ShortcutName    string        `mapstructure:"shortcut_name"`
	ChimeFile       string        `mapstructure:"chime_file"` // WAV played when a countdown expires
	LabelsFile      string        `mapstructure:"labels_file"`
	ICalSources     []ICalSource  `mapstructure:"ical_sources"`
	Allow24hLabels  bool          `mapstructure:"allow_24h_labels"`
	InheritMeridiem bool          `mapstructure:"inherit_meridiem"` // "1:00 – 2:30pm" starts at 13:00
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	DailyAt         string        `mapstructure:"daily_at"` // cron expression, empty runs once
}

// ICalSource represents a named iCal calendar source
type ICalSource struct {
	ID   string `mapstructure:"id"`   // Unique identifier
	Name string `mapstructure:"name"` // Display name
	URL  string `mapstructure:"url"`  // iCal URL
}

// HasInputs returns true if at least one label or calendar source is configured
func (c *Config) HasInputs() bool {
	return c.LabelsFile != "" || len(c.ICalSources) > 0
}

// Validate checks if the iCal source has required fields
func (s *ICalSource) Validate() bool {
	return s.Name != "" && s.URL != ""
}
