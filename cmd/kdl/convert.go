package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"
)

// nodeDoc is the lowered shape of a node for YAML/JSON output.
type nodeDoc struct {
	Name     string         `yaml:"name" json:"name"`
	Tag      string         `yaml:"tag,omitempty" json:"tag,omitempty"`
	Args     []any          `yaml:"args,omitempty" json:"args,omitempty"`
	Props    map[string]any `yaml:"props,omitempty" json:"props,omitempty"`
	Children []*nodeDoc     `yaml:"children,omitempty" json:"children,omitempty"`
}

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	switch cfg.To {
	case "yaml", "y", "json", "j":
	default:
		return fmt.Errorf("%w: -to must be yaml or json, got %q", cli.ErrUsage, cfg.To)
	}
	if len(args) == 0 {
		args = []string{""}
	}
	for _, file := range args {
		in, err := readInput(cc, file)
		if err != nil {
			return fmt.Errorf("could not read %q: %w", file, err)
		}
		doc, err := parse.Parse(in, cfg.parseOpts()...)
		if err != nil {
			return err
		}
		lowered := lowerNodes(doc.Nodes)
		var out []byte
		switch cfg.To {
		case "json", "j":
			out, err = json.MarshalIndent(lowered, "", "  ")
			out = append(out, '\n')
		default:
			out, err = yaml.Marshal(lowered)
		}
		if err != nil {
			return fmt.Errorf("error encoding %q: %w", file, err)
		}
		if _, err := cc.Out.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func lowerNodes(nodes []*ir.Node) []*nodeDoc {
	out := make([]*nodeDoc, len(nodes))
	for i, n := range nodes {
		nd := &nodeDoc{
			Name: n.Name,
			Args: lowerValues(n.Args),
		}
		if n.Tag != nil {
			nd.Tag = *n.Tag
		}
		if n.Props.Len() > 0 {
			nd.Props = map[string]any{}
			for k, v := range n.Props.All() {
				nd.Props[k] = lowerValue(v)
			}
		}
		if len(n.Children) > 0 {
			nd.Children = lowerNodes(n.Children)
		}
		out[i] = nd
	}
	return out
}
