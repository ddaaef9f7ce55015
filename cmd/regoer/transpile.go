package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/apognu/regoer"
)

// TranspileCommand prints the Rego module generated from one or more
// policy documents, without compiling or evaluating it.
type TranspileCommand struct {
	UI cli.Ui
}

func (c *TranspileCommand) Synopsis() string {
	return "Translate IAM policy documents to a Rego module"
}

func (c *TranspileCommand) Help() string {
	return strings.TrimSpace(`
Usage: regoer transpile POLICY.json [POLICY.json...]

  Parses the given IAM policy documents and prints the Rego module
  they translate to. The module is the exact source 'regoer eval'
  compiles.
`)
}

func (c *TranspileCommand) Run(args []string) int {
	flags := flag.NewFlagSet("transpile", flag.ContinueOnError)
	flags.Usage = func() { c.UI.Output(c.Help()) }
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		c.UI.Error("transpile requires at least one policy file")
		return 2
	}

	t := regoer.New()
	if err := addPolicies(t, flags.Args()); err != nil {
		c.UI.Error(err.Error())
		return 2
	}

	source, err := t.Module()
	if err != nil {
		c.UI.Error(err.Error())
		return 2
	}

	c.UI.Output(source)
	return 0
}

func addPolicies(t *regoer.Transpiler, paths []string) error {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}

		err = t.AddPolicy(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
