package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/apognu/regoer"
)

// EvalCommand compiles policy documents and decides one request.
type EvalCommand struct {
	UI cli.Ui

	flagInput    string
	flagData     string
	flagLogLevel string
}

func (c *EvalCommand) Synopsis() string {
	return "Evaluate a request against IAM policy documents"
}

func (c *EvalCommand) Help() string {
	return strings.TrimSpace(`
Usage: regoer eval -input FILE [options] POLICY.json [POLICY.json...]

  Compiles the given IAM policy documents and evaluates the request
  described by the input document. Prints ALLOW or DENY and exits 0
  when the request is allowed, 1 when it is denied, 2 on error.

Options:

  -input FILE      Request input document (JSON). Required.
  -data FILE       Static data document (JSON object) shared by all
                   decisions.
  -log-level LEVEL Log verbosity (trace, debug, info, warn, error).
                   Defaults to warn.
`)
}

func (c *EvalCommand) Run(args []string) int {
	flags := flag.NewFlagSet("eval", flag.ContinueOnError)
	flags.Usage = func() { c.UI.Output(c.Help()) }
	flags.StringVar(&c.flagInput, "input", "", "request input document")
	flags.StringVar(&c.flagData, "data", "", "static data document")
	flags.StringVar(&c.flagLogLevel, "log-level", "warn", "log verbosity")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if c.flagInput == "" {
		c.UI.Error("eval requires -input")
		return 2
	}
	if flags.NArg() == 0 {
		c.UI.Error("eval requires at least one policy file")
		return 2
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "regoer",
		Level: hclog.LevelFromString(c.flagLogLevel),
	})

	t := regoer.New(regoer.WithLogger(logger))
	if err := addPolicies(t, flags.Args()); err != nil {
		c.UI.Error(err.Error())
		return 2
	}

	if c.flagData != "" {
		data, err := readJSON(c.flagData)
		if err != nil {
			c.UI.Error(err.Error())
			return 2
		}
		if err := t.AddData(data); err != nil {
			c.UI.Error(err.Error())
			return 2
		}
	}

	input, err := readJSON(c.flagInput)
	if err != nil {
		c.UI.Error(err.Error())
		return 2
	}

	ctx := context.Background()

	ev, err := t.Compile(ctx)
	if err != nil {
		c.UI.Error(err.Error())
		return 2
	}

	allowed, err := ev.Evaluate(ctx, input)
	if err != nil {
		c.UI.Error(err.Error())
		return 2
	}

	if allowed {
		c.UI.Output(color.GreenString("ALLOW"))
		return 0
	}
	c.UI.Output(color.RedString("DENY"))
	return 1
}

func readJSON(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
