package runner

import (
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
)

var defaultFormat = envutil.GetEnvOrDefault("NETIFACES_FORMAT", "table")

// Options contains the configuration options for a snapshot run.
type Options struct {
	Up         bool
	Interfaces goflags.StringSlice
	IPv4Only   bool
	IPv6Only   bool

	JSON    bool
	NoColor bool
	Silent  bool
	Verbose bool

	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`netifaces prints a point-in-time snapshot of the host's network interfaces`)

	flagSet.CreateGroup("filter", "Filter",
		flagSet.BoolVarP(&options.Up, "up", "u", false, "show operationally active interfaces only"),
		flagSet.StringSliceVarP(&options.Interfaces, "interface", "i", nil, "show only the named interfaces (comma separated)", goflags.NormalizedStringSliceOptions),
		flagSet.BoolVar(&options.IPv4Only, "4", false, "show IPv4 entries only"),
		flagSet.BoolVar(&options.IPv6Only, "6", false, "show IPv6 entries only"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.JSON, "json", "j", defaultFormat == "json", "write output in JSON lines format"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable colors in cli output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
	)

	_ = flagSet.Parse()

	options.configureOutput()
	return options
}

// configureOutput configures the output logging levels to be displayed on the screen
func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
}
