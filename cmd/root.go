package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukagaka/shiori/cmd/gen"
	"github.com/ukagaka/shiori/internal/meta"
)

var rootCmd = &cobra.Command{
	Use:   "shiori",
	Short: "A SHIORI protocol bridge for ukagaka ghosts",
	Long: `shiori parses and serves the SHIORI request/response protocol,
bridging baseware requests over TCP to a talk-dictionary ghost.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := meta.GetInfo()

		fmt.Printf("shiori %s (%s, %s)\n", info.Version, info.Build, info.Branch)
		fmt.Printf("built %s with %s for %s\n", info.BuildTime, info.GoVersion, info.Platform)
	},
}

func init() {
	rootCmd.AddCommand(StartCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
