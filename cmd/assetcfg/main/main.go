package main

import (
	"os"

	"github.com/arthur-debert/assetcfg/cmd/assetcfg"
	"github.com/arthur-debert/assetcfg/pkg/output"
)

func main() {
	rootCmd := assetcfg.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !assetcfg.IsReported(err) {
			_ = output.NewRenderer(os.Stderr, output.FormatAuto).Error(err)
		}
		os.Exit(1)
	}
}
