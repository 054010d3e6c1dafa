package config

import "flag"

// noSeed marks the --seed flag as not given; -1 is a valid request for a random seed.
const noSeed = -2

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagSeed         = flag.Int("seed", noSeed, "Global seed (-1 = random)")
	flagSubdivisions = flag.Int("subdivisions", -1, "Icosphere subdivision level")
	flagRadius       = flag.Float64("radius", 0, "Fixed asteroid radius (sets min and max)")
	flagDensity      = flag.Float64("density", 0, "Material density in kg per cubic unit")
	flagRelief       = flag.Bool("relief", false, "Keep noise relief in the final mesh")
	flagFormat       = flag.String("format", "", "Output format: obj, stl, json or png")
	flagOut          = flag.String("out", "", "Output directory")
	flagAddr         = flag.String("addr", "", "Server listen address")
	flagWireframe    = flag.Bool("wireframe", false, "Start the viewer in wireframe mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ParseArgs parses flags from args instead of os.Args, for subcommands.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != noSeed {
		cfg.Generation.GlobalSeed = int32(*flagSeed)
	}
	if *flagSubdivisions >= 0 {
		cfg.Generation.SubdivisionLevel = uint32(*flagSubdivisions)
	}
	if *flagRadius > 0 {
		cfg.Generation.MinRadius = float32(*flagRadius)
		cfg.Generation.MaxRadius = float32(*flagRadius)
	}
	if *flagDensity > 0 {
		cfg.Generation.Density = float32(*flagDensity)
	}
	if *flagRelief {
		cfg.Generation.PreserveRelief = true
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagWireframe {
		cfg.Viewer.Wireframe = true
	}
}
