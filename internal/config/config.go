// Package config handles heightlink configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Link    LinkConfig    `yaml:"link"`
	Match   MatchConfig   `yaml:"match"`
	Logging LoggingConfig `yaml:"logging"`
}

// LinkConfig holds extension-writing settings.
type LinkConfig struct {
	Scale     float64  `yaml:"scale"`     // displacementGeometryFactor for new links
	Bias      float64  `yaml:"bias"`      // displacementGeometryOffset for new links
	Force     bool     `yaml:"force"`     // write without asking
	CopyFrom  string   `yaml:"copy_from"` // template glTF for scale/bias overrides
	Filter    []string `yaml:"filter"`    // material name include regexes
	FilterOut []string `yaml:"filter_out"`
}

// MatchConfig holds candidate discovery and scoring settings.
type MatchConfig struct {
	ExtraPaths         []string `yaml:"extra_paths"`
	HeightmapPattern   string   `yaml:"heightmap_pattern"`
	KnownExtensions    []string `yaml:"known_extensions"`
	ImageNameWeight    float64  `yaml:"image_name_weight"`
	MaterialNameWeight float64  `yaml:"material_name_weight"`
	OneImage           bool     `yaml:"match_one_image"`
	OneMaterial        bool     `yaml:"match_one_material"`
	MaterialsOnly      bool     `yaml:"match_materials_only"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Quiet   bool   `yaml:"quiet"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Link: LinkConfig{
			Scale: 1.0,
			Bias:  0.0,
		},
		Match: MatchConfig{
			HeightmapPattern:   "height|disp",
			ImageNameWeight:    1.0,
			MaterialNameWeight: 0.1,
			OneImage:           true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ConsoleLevel resolves the console log level from the level setting and the
// quiet/verbose switches. Verbose wins over quiet.
func (c *Config) ConsoleLevel() string {
	switch {
	case c.Logging.Verbose:
		return "debug"
	case c.Logging.Quiet:
		return "warn"
	default:
		return c.Logging.Level
	}
}
