package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swgwatch/swgwatch/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:   "swgwatch",
		Short: "game economy dataset tracker",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command")
		},
	}

	root.AddCommand(service.NewCommand(), service.NewProcessCommand(), service.NewSyncCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
