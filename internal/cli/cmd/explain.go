package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/cli"
	"github.com/bnema/webdock/internal/domain/entity"
)

var (
	explainWorkspace   string
	explainDisposition string
	explainCurrent     string
	explainForce       bool
	explainJSON        bool
)

var explainCmd = &cobra.Command{
	Use:   "explain <url>",
	Short: "Show how a navigation to url would be routed",
	Long: `Run the navigation policy for url as if a page of the given workspace
had requested it, and print the decision with the rule that fired.

Examples:
  webdock explain https://accounts.example.com/login --workspace mail
  webdock explain https://news.example.org --disposition foreground-tab`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := GetApp()
		if err != nil {
			return err
		}

		req := entity.NavigationRequest{
			TargetURL:   args[0],
			Disposition: entity.Disposition(explainDisposition),
			CurrentURL:  explainCurrent,
			Options:     entity.NavigationOptions{ForceNewWindow: explainForce},
		}
		if explainWorkspace != "" {
			ws, err := cli.FindWorkspace(a.Workspaces.List(), explainWorkspace)
			if err != nil {
				return err
			}
			req.TriggerWorkspaceID = ws.ID
		}

		d, err := usecase.NewExplainNavigationUseCase(a.Workspaces, a.Preferences, nil).Execute(req)
		if err != nil {
			return err
		}
		if req.Disposition == "" {
			req.Disposition = entity.DispositionDefault
		}

		if explainJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Theme.RenderDecision(req, d))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().StringVarP(&explainWorkspace, "workspace", "w", "", "workspace that requests the navigation")
	explainCmd.Flags().StringVarP(&explainDisposition, "disposition", "d", "",
		"default, foreground-tab, background-tab, new-window, forced-new-window or other")
	explainCmd.Flags().StringVar(&explainCurrent, "current", "", "page currently shown by the workspace")
	explainCmd.Flags().BoolVar(&explainForce, "force-new-window", false, "ask for a new window explicitly")
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "print the decision as JSON")
}
