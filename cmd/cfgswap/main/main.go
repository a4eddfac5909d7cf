package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/cfgswap/cmd/cfgswap"
	"github.com/arthur-debert/cfgswap/pkg/ui/styles"
)

func main() {
	rootCmd := cfgswap.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
