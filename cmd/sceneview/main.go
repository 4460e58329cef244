// Sceneview opens a built scene file in a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"scenegen/internal/config"
	"scenegen/internal/env"
	"scenegen/internal/logger"
	"scenegen/internal/preview"
	"scenegen/internal/primitives"
	"scenegen/internal/scene"
	"scenegen/internal/store"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath, "path to config file")
	var levelFlag logger.LevelFlag
	flag.Var(&levelFlag, "loglevel", "log level: DEBUG, INFO, WARN or ERROR")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: sceneview [flags] scene.json\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(flag.Arg(0), *configFlag, levelFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, configPath string, levelFlag logger.LevelFlag) error {
	if err := env.Load(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if levelFlag.IsSet {
		level = levelFlag.Value
	}
	log, closer, err := logger.New(logger.Options{
		Level:      level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	cat, err := primitives.LoadCatalog(store.NewOS(), cfg.Preview.Primitives)
	if err != nil {
		return err
	}
	log.Debug("Loaded primitives", "dir", cfg.Preview.Primitives, "count", cat.Len())
	preview.New(filepath.Base(path), sc, cat, cfg.Preview, log).Run()
	return nil
}
