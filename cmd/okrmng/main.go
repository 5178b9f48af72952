package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/oukaro/internal/cli"
)

func main() {
	rootCmd := cli.NewManagerCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
