package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scenegen/internal/pipeline"
)

type buildArgs struct {
	fs      *flag.FlagSet
	in      string
	out     string
	pretty  bool
	indent  string
	workers int
	watch   bool
}

func (a *app) buildFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.StringVar(&a.buildArgs.in, "in", "", "template dir (default from config)")
	fs.StringVar(&a.buildArgs.out, "out", "", "output dir (default from config)")
	fs.BoolVar(&a.buildArgs.pretty, "pretty", false, "reformat the generated JSON")
	fs.StringVar(&a.buildArgs.indent, "indent", "", "indent used when reformatting")
	fs.IntVar(&a.buildArgs.workers, "workers", 0, "templates built in parallel")
	fs.BoolVar(&a.buildArgs.watch, "watch", false, "rebuild when templates change")
	a.buildArgs.fs = fs
	return fs
}

// buildOptions returns the build options from config overridden by the flags actually given.
func (a *app) buildOptions() pipeline.Options {
	opts := pipeline.OptionsFromConfig(a.cfg)
	a.buildArgs.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			opts.Input = a.buildArgs.in
			if a.cfg.Output == "" {
				opts.Output = a.buildArgs.in
			}
		case "out":
			opts.Output = a.buildArgs.out
		case "pretty":
			opts.Pretty = a.buildArgs.pretty
		case "indent":
			opts.Indent = a.buildArgs.indent
		case "workers":
			opts.Workers = a.buildArgs.workers
		}
	})
	return opts
}

func (a *app) build(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("build: unexpected arguments: %v", args)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := pipeline.New(a.st, a.log, a.buildOptions())
	sum, err := b.Build(ctx)
	fmt.Fprintln(a.out, sum)
	if !a.buildArgs.watch {
		return err
	}
	if err != nil {
		a.log.Warn("Initial build incomplete", "error", err)
	}
	return b.Watch(ctx)
}
