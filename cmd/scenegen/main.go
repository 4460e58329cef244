// Scenegen renders scene templates into JSON scene files for the engine.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"scenegen/internal/commands"
	"scenegen/internal/config"
	"scenegen/internal/env"
	"scenegen/internal/logger"
	"scenegen/internal/store"
)

// app is the state shared by all subcommands.
type app struct {
	cfg config.Config
	log *slog.Logger
	st  *store.Store
	out io.Writer

	buildArgs   buildArgs
	gridArgs    gridArgs
	configWrite string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("scenegen", flag.ContinueOnError)
	global.SetOutput(stderr)
	configFlag := global.String("config", config.DefaultPath, "path to config file")
	logFileFlag := global.String("logfile", "", "also write logs to this file")
	var levelFlag logger.LevelFlag
	global.Var(&levelFlag, "loglevel", "log level: DEBUG, INFO, WARN or ERROR")

	reg := commands.NewRegistry()
	a := &app{st: store.NewOS(), out: stdout}
	a.register(reg, stderr)
	global.Usage = func() {
		fmt.Fprintf(stderr, "Usage: scenegen [global flags] <command> [flags]\n\nCommands:\n")
		reg.Usage(stderr)
		fmt.Fprintf(stderr, "\nGlobal flags:\n")
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if err := env.Load(".env"); err != nil {
		fmt.Fprintf(stderr, "env: %v\n", err)
		return 1
	}
	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if levelFlag.IsSet {
		level = levelFlag.Value
	}
	if *logFileFlag != "" {
		cfg.Log.File = *logFileFlag
	}
	log, closer, err := logger.New(logger.Options{
		Level:      level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Stderr:     stderr,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closer.Close()
	a.cfg = cfg
	a.log = log

	if err := reg.Execute(global.Args()); err != nil {
		if errors.Is(err, commands.ErrUsage) {
			fmt.Fprintln(stderr, err)
			global.Usage()
			return 1
		}
		if !errors.Is(err, flag.ErrHelp) {
			log.Error("Command failed", "error", err)
		}
		return 1
	}
	return 0
}

func (a *app) register(reg *commands.Registry, stderr io.Writer) {
	build := a.buildFlags()
	grid := a.gridFlags()
	cfg := a.configFlags()
	for _, fs := range []*flag.FlagSet{build, grid, cfg} {
		fs.SetOutput(stderr)
	}
	reg.Register("build", "render every scene template to JSON", build, a.build)
	reg.Register("grid", "print a grid of tile entities as a scene", grid, a.grid)
	reg.Register("config", "print the effective configuration, or write it with -write", cfg, a.printConfig)
}

func (a *app) configFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&a.configWrite, "write", "", "save the effective configuration to this file instead of printing it")
	return fs
}

func (a *app) printConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("config: unexpected arguments: %v", args)
	}
	if a.configWrite != "" {
		if err := config.Save(a.configWrite, a.cfg); err != nil {
			return err
		}
		a.log.Info("Saved configuration", "path", a.configWrite)
		return nil
	}
	data, err := config.Marshal(a.cfg)
	if err != nil {
		return err
	}
	_, err = a.out.Write(data)
	return err
}
