package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/webdock/internal/cli/styles"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		info := buildInfo.WithDefaults()
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), info.Version)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.NewAboutRenderer(styles.NewTheme()).Render(info))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print the version number only")
}
