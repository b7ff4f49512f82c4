package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/assetcfg/cmd/assetcfg"
	"github.com/arthur-debert/assetcfg/internal/version"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	rootCmd := assetcfg.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ASSETCFG",
		Section: "1",
		Source:  "assetcfg " + version.Version,
		Manual:  "assetcfg manual",
	}

	if err := doc.GenManTree(rootCmd, header, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
}
