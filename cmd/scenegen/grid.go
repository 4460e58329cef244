package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"scenegen/internal/codec"
	"scenegen/internal/mapgen"
	"scenegen/internal/scene"
)

// vectorFlag is a flag.Value holding a vector written as "x,y,z".
type vectorFlag struct {
	v     scene.Vector3
	isSet bool
}

func (f *vectorFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", f.v[0], f.v[1], f.v[2])
}

func (f *vectorFlag) Set(s string) error {
	v, err := parseVector(s)
	if err != nil {
		return err
	}
	f.v = v
	f.isSet = true
	return nil
}

// parseVector parses "x,y,z".
func parseVector(s string) (scene.Vector3, error) {
	var v scene.Vector3
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("vector %q: want x,y,z", s)
	}
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = x
	}
	return v, nil
}

type gridArgs struct {
	model  string
	from   vectorFlag
	to     vectorFlag
	step   vectorFlag
	indent string
}

func (a *app) gridFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	fs.StringVar(&a.gridArgs.model, "model", "", "renderable and physics model of every tile")
	fs.Var(&a.gridArgs.from, "from", "first corner as x,y,z")
	fs.Var(&a.gridArgs.to, "to", "second corner as x,y,z")
	fs.Var(&a.gridArgs.step, "step", "spacing per axis as x,y,z")
	fs.StringVar(&a.gridArgs.indent, "indent", codec.DefaultIndent, "JSON indent")
	return fs
}

func (a *app) grid(args []string) error {
	if a.gridArgs.model == "" {
		return fmt.Errorf("grid: -model is required")
	}
	if !a.gridArgs.from.isSet || !a.gridArgs.to.isSet || !a.gridArgs.step.isSet {
		return fmt.Errorf("grid: -from, -to and -step are required")
	}
	if len(args) > 0 {
		return fmt.Errorf("grid: unexpected arguments: %v", args)
	}
	tiles := mapgen.TileGrid(a.gridArgs.model, a.gridArgs.from.v, a.gridArgs.to.v, a.gridArgs.step.v)
	a.log.Debug("Generated tiles", "model", a.gridArgs.model, "count", len(tiles))
	data, err := codec.Marshal(scene.Scene{Entities: tiles}, a.gridArgs.indent)
	if err != nil {
		return err
	}
	_, err = a.out.Write(data)
	return err
}
