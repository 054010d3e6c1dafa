// rockforge generates procedural asteroid meshes from the command line and
// serves them over a websocket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/rockforge/internal/config"
	"github.com/Faultbox/rockforge/internal/forge"
	"github.com/Faultbox/rockforge/internal/logger"
	"github.com/Faultbox/rockforge/internal/server"
	"github.com/Faultbox/rockforge/pkg/asteroid"
	"github.com/Faultbox/rockforge/pkg/asteroid/export"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "generate", "gen":
		cmdGenerate(args)
	case "field":
		cmdField(args)
	case "serve":
		cmdServe(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rockforge - procedural asteroid generator

Usage:
  rockforge <command> [options]

Commands:
  generate [params.yaml]   Generate one asteroid and write it to the output dir
  field <count>            Generate a field of asteroids from one seed
  serve                    Serve generation requests on a websocket (/ws)
  config [save]            Print the effective config, or save it

Options:
  --config <file>     Config file (default ./rockforge.yaml or user config dir)
  --seed <n>          Global seed, -1 for random
  --subdivisions <n>  Icosphere subdivision level (0-8)
  --radius <r>        Fixed radius
  --density <d>       Density in kg per cubic unit
  --relief            Keep noise relief in the final mesh
  --format <f>        obj, stl, json or png (preview image)
  --out <dir>         Output directory
  --addr <host:port>  Server listen address
  --debug             Debug logging

Examples:
  rockforge generate --seed 42 --format stl
  rockforge generate --relief rock.yaml
  rockforge field --seed 7 --out ./belt 12
  rockforge serve --addr :8420`)
}

// setup parses flags and loads config. Positional arguments are returned.
func setup(args []string) (*config.Config, []string) {
	if err := config.ParseArgs(args); err != nil {
		fail(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	return cfg, config.Args()
}

func initLogger(cfg *config.Config) {
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
}

func cmdGenerate(args []string) {
	cfg, rest := setup(args)
	defer logger.Sync()

	if len(rest) > 0 {
		var err error
		cfg, err = config.LoadParams(rest[0])
		if err != nil {
			fail(err)
		}
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		fail(err)
	}

	res, err := forge.New(cfg.Generation).Generate()
	if err != nil {
		fail(err)
	}

	path := outputPath(cfg.Output, format, res.Stats.GlobalSeed, -1)
	if err := writeResult(path, format, cfg.Output.Name, res); err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)

	if err := export.WriteStats(os.Stdout, res.Stats); err != nil {
		fail(err)
	}
}

func cmdField(args []string) {
	cfg, rest := setup(args)
	defer logger.Sync()

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rockforge field [options] <count>")
		os.Exit(1)
	}
	count, err := strconv.Atoi(rest[0])
	if err != nil || count < 1 {
		fail(fmt.Errorf("invalid count %q", rest[0]))
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	field, err := forge.GenerateField(ctx, cfg.Generation, count, 0)
	if err != nil {
		fail(err)
	}

	var total float64
	for i, res := range field.Asteroids {
		path := outputPath(cfg.Output, format, res.Stats.GlobalSeed, i)
		if err := writeResult(path, format, fmt.Sprintf("%s_%d", cfg.Output.Name, i), res); err != nil {
			fail(err)
		}
		total += res.Stats.Mass
		fmt.Printf("%-40s radius %8.2f  mass %.4g kg\n", path, res.Stats.Radius, res.Stats.Mass)
	}
	fmt.Printf("\nField seed %d: %d asteroids, %.4g kg total\n", field.Seed, len(field.Asteroids), total)
}

func cmdServe(args []string) {
	cfg, _ := setup(args)
	defer logger.Sync()

	if err := cfg.Generation.Validate(); err != nil {
		logger.Warn("default generation parameters look wrong", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, cfg.Generation)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func cmdConfig(args []string) {
	cfg, rest := setup(args)
	defer logger.Sync()

	if len(rest) > 0 && rest[0] == "save" {
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	if path := config.ConfigPath(); path != "" {
		fmt.Printf("# loaded from %s\n", path)
	}
	if err := cfg.Write(os.Stdout); err != nil {
		fail(err)
	}
}

// outputPath names an output file after the seed, and the field index when
// index is not negative.
func outputPath(out config.OutputConfig, format export.Format, seed int32, index int) string {
	name := fmt.Sprintf("%s-%d%s", out.Name, seed, format.Ext())
	if index >= 0 {
		name = fmt.Sprintf("%s-%03d-%d%s", out.Name, index, seed, format.Ext())
	}
	return filepath.Join(out.Dir, name)
}

func writeResult(path string, format export.Format, name string, res *asteroid.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f, format, name, res); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func fail(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
