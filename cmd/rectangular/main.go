package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/rectangular/internal/config"
	"github.com/1broseidon/rectangular/internal/logging"
	"github.com/1broseidon/rectangular/internal/platform"
	"github.com/1broseidon/rectangular/internal/tiling"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runTray(nil, stderr)
	}

	switch args[0] {
	case "run":
		return runTray(args[1:], stderr)
	case "tile":
		return runTile(args[1:], stdout, stderr)
	case "layout":
		return runLayout(args[1:], stdout, stderr)
	case "config":
		return runConfig(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printMainUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printMainUsage(stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rectangular [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the tray application (default)")
	fmt.Fprintln(w, "  tile                Arrange the windows of the active display once")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout list         List available layouts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'rectangular <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default config file when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runTile(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: rectangular tile [--layout NAME] [--path PATH]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Arrange the windows of the active display with a layout.")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	layout := fs.String("layout", "", "Layout name (default: default_layout from config)")
	path := fs.String("path", "", "Config file path")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "tile takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	name := *layout
	if name == "" {
		name = cfg.DefaultLayout
	}

	backend, err := platform.New()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer backend.Close()

	arranger := tiling.NewArranger(backend, cfg, logging.Stderr(cfg.LogLevel))
	res, err := arranger.Arrange(name)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: arranged %d window(s) on %s", res.Layout, res.Moved, res.Display)
	if res.Skipped > 0 || res.Failed > 0 {
		fmt.Fprintf(stdout, " (%d skipped, %d failed)", res.Skipped, res.Failed)
	}
	fmt.Fprintln(stdout)
	return 0
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rectangular layout list [--json] [--path PATH]")
}

type layoutJSON struct {
	Name            string `json:"name"`
	Mode            string `json:"mode"`
	Region          string `json:"region"`
	Default         bool   `json:"default,omitempty"`
	Rows            int    `json:"rows,omitempty"`
	Cols            int    `json:"cols,omitempty"`
	MaxWindowWidth  int    `json:"max_window_width,omitempty"`
	MaxWindowHeight int    `json:"max_window_height,omitempty"`
	FlexibleLastRow bool   `json:"flexible_last_row,omitempty"`
}

func runLayout(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printLayoutUsage(stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printLayoutUsage(stdout)
		return 0
	}
	if args[0] != "list" {
		fmt.Fprintf(stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonOut := fs.Bool("json", false, "Output layout details as JSON")
	path := fs.String("path", "", "Config file path")
	if code, ok := parseFlags(fs, args[1:]); !ok {
		return code
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if !*jsonOut {
		for _, name := range cfg.LayoutNames() {
			marker := " "
			if name == cfg.DefaultLayout {
				marker = "*"
			}
			fmt.Fprintf(stdout, "%s %-16s %s\n", marker, name, cfg.Layouts[name].Mode)
		}
		return 0
	}

	layouts := make([]layoutJSON, 0, len(cfg.Layouts))
	for _, name := range cfg.LayoutNames() {
		l := cfg.Layouts[name]
		entry := layoutJSON{
			Name:            name,
			Mode:            string(l.Mode),
			Region:          string(l.TileRegion.Type),
			Default:         name == cfg.DefaultLayout,
			MaxWindowWidth:  l.MaxWindowWidth,
			MaxWindowHeight: l.MaxWindowHeight,
			FlexibleLastRow: l.FlexibleLastRow,
		}
		if l.Mode == config.LayoutModeFixed {
			entry.Rows, entry.Cols = l.FixedGrid.Rows, l.FixedGrid.Cols
		}
		layouts = append(layouts, entry)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(layouts); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  rectangular config validate [--path PATH]")
		fmt.Fprintln(stderr, "  rectangular config print [--path PATH] [--defaults]")
		fmt.Fprintln(stderr, "  rectangular config path")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path")
		defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}

		cfg := config.DefaultConfig()
		if !*defaults {
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		stdout.Write(data)
		return 0

	case "path":
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, p)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}
