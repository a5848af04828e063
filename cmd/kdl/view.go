package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/parse"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{""}
	}
	for _, file := range args {
		if err := viewFile(cfg, cc, file); err != nil {
			return err
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, file string) error {
	in, err := readInput(cc, file)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", file, err)
	}
	doc, err := parse.Parse(in, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	if opts == nil && !cfg.NoColor {
		// view exists to colorize; force it even through a pipe
		opts = []encode.Option{encode.WithColors(encode.NewColors())}
	}
	return encode.Encode(doc, cc.Out, opts...)
}
