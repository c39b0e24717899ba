// featurecheck inspects feature definitions: it simulates configurations,
// prints the generator plan, lints definitions and regenerates the
// configuration files on change.
package main

import (
	"os"

	"github.com/espressomd/featuregen/cmd/featurecheck/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
