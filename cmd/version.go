package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/fast-note-offline-client/internal/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"github.com/spf13/cobra"
)

func init() {
	var versionCommand = &cobra.Command{
		Use:   "version",
		Short: "Print version and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", internalApp.Name, internalApp.Version)
			fmt.Printf("Git: %s\n", internalApp.GitTag)
			fmt.Printf("BuildTime: %s\n", internalApp.BuildTime)

			summary := util.GetRuntimeSummary()
			for _, key := range []string{"go", "os", "arch", "hostname", "uptime", "memory"} {
				if v, ok := summary[key]; ok {
					fmt.Printf("%s: %s\n", key, v)
				}
			}
		},
	}

	rootCmd.AddCommand(versionCommand)
}
