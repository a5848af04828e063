package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/parse"
)

func (cfg *FmtConfig) fmtOpts() []encode.Option {
	indent := "\t"
	if cfg.Indent >= 0 {
		indent = strings.Repeat(" ", cfg.Indent)
	}
	return []encode.Option{
		encode.Indent(indent),
		encode.Semicolons(cfg.Semis),
		encode.RespectRadix(!cfg.NoRadix),
		encode.RespectStringType(!cfg.NoRaw),
	}
}

func fmtRun(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Write && len(args) == 0 {
		return fmt.Errorf("%w: -w requires file arguments", cli.ErrUsage)
	}
	if len(args) == 0 {
		return fmtOne(cfg, cc, "")
	}
	dirty := false
	for _, file := range args {
		changed, err := fmtFile(cfg, cc, file)
		if err != nil {
			return err
		}
		dirty = dirty || changed
	}
	if cfg.List && dirty {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func fmtOne(cfg *FmtConfig, cc *cli.Context, file string) error {
	_, err := fmtFile(cfg, cc, file)
	return err
}

// fmtFile reformats one input and reports whether formatting changed it.
func fmtFile(cfg *FmtConfig, cc *cli.Context, file string) (bool, error) {
	in, err := readInput(cc, file)
	if err != nil {
		return false, fmt.Errorf("could not read %q: %w", file, err)
	}
	doc, err := parse.Parse(in, cfg.parseOpts()...)
	if err != nil {
		if file != "" {
			return false, fmt.Errorf("%s: %w", file, err)
		}
		return false, err
	}
	formatted, err := encode.Print(doc, cfg.fmtOpts()...)
	if err != nil {
		return false, err
	}
	changed := formatted != string(in)
	switch {
	case cfg.List:
		if changed && file != "" {
			fmt.Fprintln(cc.Out, file)
		}
	case cfg.Diff:
		if changed {
			dmp := diffmatchpatch.New()
			diffs := dmp.DiffMain(string(in), formatted, false)
			fmt.Fprint(cc.Out, dmp.DiffPrettyText(diffs))
		}
	case cfg.Write:
		if changed {
			if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
				return false, fmt.Errorf("could not rewrite %q: %w", file, err)
			}
		}
	default:
		fmt.Fprint(cc.Out, formatted)
	}
	return changed, nil
}
