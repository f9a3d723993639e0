package config

import (
	"flag"
	"strings"
)

// listFlag collects repeated flag values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagForce          = flag.Bool("force", false, "Write files without asking first")
	flagQuiet          = flag.Bool("quiet", false, "Do not print details")
	flagVerbose        = flag.Bool("verbose", false, "Print search attempts")
	flagScale          = flag.Float64("scale", 1.0, "Heightmap scale")
	flagBias           = flag.Float64("bias", 0.0, "Heightmap bias")
	flagCopyFrom       = flag.String("copy-from", "", "Template glTF whose displacement scale/bias override same-named materials")
	flagPattern        = flag.String("heightmap-regex", "height|disp", "Case-insensitive pattern marking a filename as a heightmap")
	flagImageWeight    = flag.Float64("image-weight", 1.0, "Weight of the image name similarity term")
	flagMaterialWeight = flag.Float64("material-weight", 0.1, "Weight of the material name similarity term")
	flagOneImage       = flag.Bool("match-one-image", true, "Link each heightmap filename to at most one image")
	flagOneMaterial    = flag.Bool("match-one-material", false, "Link each heightmap to at most one material")
	flagMaterialsOnly  = flag.Bool("materials-only", false, "Also match materials that reference no texture, by name alone")
	flagLogFile        = flag.String("log-file", "", "Write a log file in addition to console output")

	flagExtraPaths listFlag
	flagFilter     listFlag
	flagFilterOut  listFlag
)

func init() {
	flag.Var(&flagExtraPaths, "extra-path", "Extra heightmap search path (repeatable)")
	flag.Var(&flagFilter, "filter", "Regex for material names to change (repeatable)")
	flag.Var(&flagFilterOut, "filter-out", "Regex for material names to ignore (repeatable)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Only flags that were
// actually set on the command line override file or default values.
func applyFlags(cfg *Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["force"] {
		cfg.Link.Force = *flagForce
	}
	if set["quiet"] {
		cfg.Logging.Quiet = *flagQuiet
	}
	if set["verbose"] {
		cfg.Logging.Verbose = *flagVerbose
	}
	if set["scale"] {
		cfg.Link.Scale = *flagScale
	}
	if set["bias"] {
		cfg.Link.Bias = *flagBias
	}
	if set["copy-from"] {
		cfg.Link.CopyFrom = *flagCopyFrom
	}
	if set["heightmap-regex"] {
		cfg.Match.HeightmapPattern = *flagPattern
	}
	if set["image-weight"] {
		cfg.Match.ImageNameWeight = *flagImageWeight
	}
	if set["material-weight"] {
		cfg.Match.MaterialNameWeight = *flagMaterialWeight
	}
	if set["match-one-image"] {
		cfg.Match.OneImage = *flagOneImage
	}
	if set["match-one-material"] {
		cfg.Match.OneMaterial = *flagOneMaterial
	}
	if set["materials-only"] {
		cfg.Match.MaterialsOnly = *flagMaterialsOnly
	}
	if set["log-file"] {
		cfg.Logging.LogFile = *flagLogFile
	}
	if len(flagExtraPaths) > 0 {
		cfg.Match.ExtraPaths = append(cfg.Match.ExtraPaths, flagExtraPaths...)
	}
	if len(flagFilter) > 0 {
		cfg.Link.Filter = append(cfg.Link.Filter, flagFilter...)
	}
	if len(flagFilterOut) > 0 {
		cfg.Link.FilterOut = append(cfg.Link.FilterOut, flagFilterOut...)
	}
}
