// Command kdlreformat reads a KDL document and writes it back in a
// canonical representation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/parse"
)

type ReformatConfig struct {
	Indent     int    `cli:"name=indent desc='how many spaces for each level of indent; -1 indicates to indent with tabs'"`
	Semicolons bool   `cli:"name=semicolons desc='end nodes with semicolons'"`
	NoRadix    bool   `cli:"name=no-radix desc='convert all numeric arguments to decimal (0x1a outputs as 26)'"`
	Radix      bool   `cli:"name=radix desc='output numeric values in the radix used by the input (0x1a outputs as 0x1a)'"`
	NoRaw      bool   `cli:"name=no-raw-strings desc='convert all string arguments into plain strings'"`
	Raw        bool   `cli:"name=raw-strings desc='output string values in the string type used by the input'"`
	Exponent   string `cli:"name=exponent desc='what character to use (e or E) for indicating exponents on scinot numbers'"`

	Cmd *cli.Command
}

func main() {
	cli.MainContext(context.Background(), Command())
}

func Command() *cli.Command {
	cfg := &ReformatConfig{Indent: -1, Exponent: "e"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "kdlreformat").
		WithSynopsis("kdlreformat [opts] [infile [outfile]]").
		WithDescription("kdlreformat reformats KDL files into a canonical representation.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return reformat(cfg, cc, args)
		})
}

func (cfg *ReformatConfig) encOpts() ([]encode.Option, error) {
	if cfg.Exponent != "e" && cfg.Exponent != "E" {
		return nil, fmt.Errorf("%w: expected 'e' or 'E' for an exponent; got %q", cli.ErrUsage, cfg.Exponent)
	}
	indent := "\t"
	if cfg.Indent >= 0 {
		indent = strings.Repeat(" ", cfg.Indent)
	}
	return []encode.Option{
		encode.Indent(indent),
		encode.Semicolons(cfg.Semicolons),
		encode.RespectRadix(!cfg.NoRadix),
		encode.RespectStringType(!cfg.NoRaw),
		encode.Exponent(cfg.Exponent[0]),
	}, nil
}

func reformat(cfg *ReformatConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	encOpts, err := cfg.encOpts()
	if err != nil {
		return err
	}
	if len(args) > 2 {
		return fmt.Errorf("%w: at most two arguments, infile and outfile", cli.ErrUsage)
	}

	var in io.Reader = cc.In
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("could not open %q: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}
	var out io.Writer = cc.Out
	if len(args) > 1 && args[1] != "-" {
		f, err := os.OpenFile(args[1], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", args[1], err)
		}
		defer f.Close()
		out = f
	}

	d, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("error reading: %w", err)
	}
	// reformatting keeps values as literals so nothing is lossy
	doc, err := parse.Parse(d, parse.NativeUntagged(false), parse.NativeTagged(false))
	if err != nil {
		return err
	}
	return encode.Encode(doc, out, encOpts...)
}
