// Command itemgen generates a typed table of a package's constants and
// variables. Run it from a go:generate directive:
//
//	//go:generate go run github.com/teranos/itemgen/cmd/itemgen
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/itemgen/cmd/itemgen/cmd"
	"github.com/teranos/itemgen/errors"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", pterm.Red("Error:"), err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "%s %s\n", pterm.Yellow("Hint:"), hint)
		}
		os.Exit(1)
	}
}
