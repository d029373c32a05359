// cmd/configure/main.go
package main

import (
	"fmt"
	"os"

	"github.com/neonkingfr/slepc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
