package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/oukaro/internal/cli"
	"github.com/arthur-debert/oukaro/internal/version"
)

// Writes man pages for oukaro and okrmng into the directory given as the
// only argument (default: current directory).
func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	for _, rootCmd := range []*cobra.Command{cli.NewRootCmd(), cli.NewManagerCmd()} {
		header := &doc.GenManHeader{
			Title:   strings.ToUpper(rootCmd.Name()),
			Section: "8",
			Source:  rootCmd.Name() + " " + version.Version,
			Manual:  "oukaro manual",
		}
		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating man pages for %s: %v\n", rootCmd.Name(), err)
			os.Exit(1)
		}
	}
}
