package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/homer/cmd/homer"
	"github.com/arthur-debert/homer/pkg/ui/styles"
)

func main() {
	rootCmd := homer.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
