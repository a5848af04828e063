package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/parse"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force color output'"`
	NoColor bool `cli:"name=no-color desc='disable color output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// parseOpts keeps literals unconverted: the tool reprints what it read.
func (cfg *MainConfig) parseOpts() []parse.Option {
	return []parse.Option{
		parse.NativeUntagged(false),
		parse.NativeTagged(false),
	}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.Option {
	if cfg.NoColor {
		return nil
	}
	if cfg.Color || (w == os.Stdout && isatty.IsTerminal(os.Stdout.Fd())) {
		return []encode.Option{encode.WithColors(encode.NewColors())}
	}
	return nil
}

func readInput(cc *cli.Context, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cc.In)
	}
	return os.ReadFile(file)
}
