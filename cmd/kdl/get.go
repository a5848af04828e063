package main

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"

	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a node name or *", cli.ErrUsage)
	}
	key, err := cfg.nodeKey(args[0])
	if err != nil {
		return err
	}
	var prog *vm.Program
	if cfg.Where != "" {
		prog, err = expr.Compile(cfg.Where, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return fmt.Errorf("%w: bad -where expression: %v", cli.ErrUsage, err)
		}
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{""}
	}
	found := false
	for _, file := range files {
		in, err := readInput(cc, file)
		if err != nil {
			return fmt.Errorf("could not read %q: %w", file, err)
		}
		doc, err := parse.Parse(in, cfg.parseOpts()...)
		if err != nil {
			return err
		}
		matched, err := selectNodes(doc.Nodes, key, prog)
		if err != nil {
			return err
		}
		if len(matched) == 0 {
			continue
		}
		found = true
		out := &ir.Document{Nodes: matched}
		if err := encode.Encode(out, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	}
	if !found {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func (cfg *GetConfig) nodeKey(name string) (ir.NodeKey, error) {
	key := ir.NodeKey{}
	if cfg.Tag != "" {
		key.Tag = ir.Exact(cfg.Tag)
	}
	switch {
	case name == "*":
	case cfg.Regexp:
		re, err := regexp.Compile(name)
		if err != nil {
			return key, fmt.Errorf("%w: bad name pattern: %v", cli.ErrUsage, err)
		}
		key.Name = ir.Pattern(re)
	default:
		key.Name = ir.Exact(name)
	}
	return key, nil
}

// selectNodes walks the whole tree, keeping nodes that match the key and
// satisfy the -where expression.
func selectNodes(nodes []*ir.Node, key ir.NodeKey, prog *vm.Program) ([]*ir.Node, error) {
	var out []*ir.Node
	for _, n := range nodes {
		if n.MatchesKey(key) {
			keep := true
			if prog != nil {
				res, err := expr.Run(prog, nodeEnv(n))
				if err != nil {
					return nil, fmt.Errorf("error evaluating -where: %w", err)
				}
				keep = res == true
			}
			if keep {
				out = append(out, n)
			}
		}
		sub, err := selectNodes(n.Children, key, prog)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func nodeEnv(n *ir.Node) map[string]any {
	tag := ""
	if n.Tag != nil {
		tag = *n.Tag
	}
	env := map[string]any{
		"name": n.Name,
		"tag":  tag,
		"args": lowerValues(n.Args),
	}
	props := map[string]any{}
	for k, v := range n.Props.All() {
		props[k] = lowerValue(v)
	}
	env["props"] = props
	return env
}
