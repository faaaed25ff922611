// Command as is the launcher described in spec.md §6: `as <filename>`
// runs a script; `as -i` prints an identification banner.
package main

import (
	"fmt"
	"os"

	"github.com/ascript/as/cmd/as/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
