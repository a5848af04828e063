package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "kdl").
		WithSynopsis("kdl [opts] command [opts]").
		WithDescription("kdl is a tool for working with KDL documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return kdlMain(cfg, cc, args)
		}).
		WithSubs(
			FmtCommand(cfg),
			ViewCommand(cfg),
			GetCommand(cfg),
			ConvertCommand(cfg))
}

type FmtConfig struct {
	*MainConfig
	Diff    bool `cli:"name=d desc='print diffs instead of rewriting files'"`
	List    bool `cli:"name=l desc='list files whose formatting differs'"`
	Write   bool `cli:"name=w desc='write result to source files instead of stdout'"`
	Indent  int  `cli:"name=indent desc='spaces per indent level; -1 means tabs'"`
	Semis   bool `cli:"name=semicolons desc='end nodes with semicolons'"`
	NoRadix bool `cli:"name=no-radix desc='convert all numeric values to decimal'"`
	NoRaw   bool `cli:"name=no-raw-strings desc='convert all raw strings to plain strings'"`

	Fmt *cli.Command
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg, Indent: -1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithAliases("f").
		WithSynopsis("fmt [opts] [files]").
		WithDescription("reformat KDL documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fmtRun(cfg, cc, args)
		})
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view KDL documents in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

type GetConfig struct {
	*MainConfig
	Tag    string `cli:"name=tag desc='require this node tag'"`
	Regexp bool   `cli:"name=r desc='treat the name argument as a regular expression'"`
	Where  string `cli:"name=where desc='keep nodes for which this expression is true'"`

	Get *cli.Command
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [opts] <name|*> [files]").
		WithDescription("select nodes by name, tag, and expression").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

type ConvertConfig struct {
	*MainConfig
	To string `cli:"name=to desc='output format: yaml or json'"`

	Convert *cli.Command
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg, To: "yaml"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c").
		WithSynopsis("convert [-to yaml|json] [files]").
		WithDescription("lower KDL documents to YAML or JSON").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}
