package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:          "books",
		Short:        "Books REST API backed by MongoDB",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "optional YAML config file")
	root.AddCommand(newServeCmd(&configFile), newUserAddCmd(&configFile))
	return root
}
