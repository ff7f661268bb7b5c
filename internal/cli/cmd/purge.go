package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/cli"
	"github.com/bnema/webdock/internal/domain/entity"
)

var (
	purgeAll    bool
	purgeShared bool
	purgeIcons  bool
	purgeFilter bool
	purgeDryRun bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge [workspace...]",
	Short: "Wipe browsing data from disk",
	Long: `Wipe the storage partitions of the given workspaces. Workspaces are kept;
they start with a clean session next time.

Use --shared for the partition used when browsing data is shared, --icons
for downloaded workspace pictures, --filters for cached ad blocking rules,
or --all for everything.
--dry-run lists what exists and its size without removing anything.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().BoolVarP(&purgeAll, "all", "a", false, "purge every partition, the icons and the filter lists")
	purgeCmd.Flags().BoolVar(&purgeShared, "shared", false, "purge the shared partition")
	purgeCmd.Flags().BoolVar(&purgeIcons, "icons", false, "purge workspace pictures")
	purgeCmd.Flags().BoolVar(&purgeFilter, "filters", false, "purge cached content filter lists")
	purgeCmd.Flags().BoolVarP(&purgeDryRun, "dry-run", "n", false, "only list purge targets")
}

func runPurge(cmd *cobra.Command, args []string) error {
	a, err := GetApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()

	if purgeDryRun {
		targets, err := a.Purge.GetPurgeTargets(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Theme.RenderPurgeTargets(targets))
		return nil
	}

	input := usecase.PurgeInput{}
	for _, ref := range args {
		ws, err := cli.FindWorkspace(a.Workspaces.List(), ref)
		if err != nil {
			return err
		}
		input.WorkspaceIDs = append(input.WorkspaceIDs, ws.ID)
	}
	if len(args) > 0 || purgeAll {
		input.TargetTypes = append(input.TargetTypes, entity.PurgeTargetPartition)
	}
	if purgeShared || purgeAll {
		input.TargetTypes = append(input.TargetTypes, entity.PurgeTargetSharedPartition)
	}
	if purgeIcons || purgeAll {
		input.TargetTypes = append(input.TargetTypes, entity.PurgeTargetIcons)
	}
	if purgeFilter || purgeAll {
		input.TargetTypes = append(input.TargetTypes, entity.PurgeTargetFilterLists)
	}
	if len(input.TargetTypes) == 0 {
		return errors.New("nothing selected: name workspaces or pass --shared, --icons, --filters or --all")
	}

	out, err := a.Purge.Execute(ctx, input)
	if out != nil {
		fmt.Fprintln(cmd.OutOrStdout(), a.Theme.RenderPurgeResults(out.Results))
	}
	return err
}
