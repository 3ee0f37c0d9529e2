// Package main provides the CLI entrypoint for assembler-generator.
//
// assembler-generator finds expressions whose type cannot be assigned to
// their target and fixes them by generating a converter:
//   - scan: list the findings of a workspace
//   - fix: apply the fix of one finding, creating the holder and methods
//   - show: render the files of a workspace
//   - types: classify a pair of types loaded from Go packages
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const usage = `Usage: assembler-generator <command> [flags]

Commands:
  scan   list findings of a workspace
  fix    apply the fix of one finding
  show   render workspace files
  types  classify a type pair from Go packages

Run "assembler-generator <command> -h" for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var cmd func(args []string, stdout, stderr io.Writer) error

	switch args[0] {
	case "scan":
		cmd = runScan
	case "fix":
		cmd = runFix
	case "show":
		cmd = runShow
	case "types":
		cmd = runTypes
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(args[1:], stdout, stderr); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}

		fmt.Fprintf(stderr, "error: %v\n", err)

		return 1
	}

	return 0
}
