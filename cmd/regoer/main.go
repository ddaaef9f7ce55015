// regoer turns AWS IAM policy documents into Rego modules and
// evaluates authorization requests against them.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"
)

const version = "0.1.0"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("regoer", version)
	c.Args = args
	c.Commands = map[string]cli.CommandFactory{
		"transpile": func() (cli.Command, error) {
			return &TranspileCommand{UI: ui}, nil
		},
		"eval": func() (cli.Command, error) {
			return &EvalCommand{UI: ui}, nil
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitCode
}
