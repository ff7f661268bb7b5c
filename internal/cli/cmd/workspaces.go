package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/webdock/internal/cli"
	"github.com/bnema/webdock/internal/cli/styles"
	"github.com/bnema/webdock/internal/coordinator"
	"github.com/bnema/webdock/internal/domain/entity"
)

var (
	listJSON    bool
	addName     string
	addURL      string
	addActivate bool
)

var workspacesCmd = &cobra.Command{
	Use:     "workspaces",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces",
	Long: `Manage workspaces. A workspace can be referenced by its id, a unique
id prefix, or its name.`,
}

var workspacesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspaces in order",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := GetApp()
		if err != nil {
			return err
		}
		list := a.Workspaces.List()
		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.NewWorkspaceRenderer(a.Theme).RenderList(list))
		return nil
	},
}

var workspacesShowCmd = &cobra.Command{
	Use:   "show <workspace>",
	Short: "Show one workspace with its overrides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ws, err := appAndWorkspace(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.NewWorkspaceRenderer(a.Theme).RenderDetail(ws))
		return nil
	},
}

var workspacesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := GetApp()
		if err != nil {
			return err
		}
		patch := entity.WorkspacePatch{}
		if addName != "" {
			patch.Name = &addName
		}
		if addURL != "" {
			patch.HomeURL = &addURL
		}
		ws, err := a.Workspaces.Create(a.Ctx(), patch)
		if err != nil {
			return err
		}
		if addActivate && !ws.Active {
			if _, err := a.Workspaces.SetActive(a.Ctx(), ws.ID); err != nil {
				return err
			}
		}
		success(cmd, a, "created %s (%s)", ws.DisplayName(), ws.ID)
		return nil
	},
}

var workspacesRemoveCmd = &cobra.Command{
	Use:     "rm <workspace>",
	Aliases: []string{"remove"},
	Short:   "Remove a workspace and wipe its browsing data",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ws, err := appAndWorkspace(args[0])
		if err != nil {
			return err
		}
		ctx := a.Ctx()
		if err := a.Workspaces.Remove(ctx, ws.ID); err != nil {
			return err
		}
		// The shared partition belongs to every workspace and is kept.
		if !a.Preferences.Preferences().ShareBrowsingData {
			if err := a.Partitions.Wipe(ctx, a.Partitions.PartitionID(ws.ID, false)); err != nil {
				warn(cmd, a, "browsing data of %s not removed: %v", ws.DisplayName(), err)
			}
		}
		if ws.Active {
			if remaining := a.Workspaces.List(); len(remaining) > 0 {
				if _, err := a.Workspaces.SetActive(ctx, remaining[0].ID); err != nil {
					return err
				}
			}
		}
		success(cmd, a, "removed %s", ws.DisplayName())
		return nil
	},
}

var workspacesActivateCmd = &cobra.Command{
	Use:   "activate <workspace>",
	Short: "Make a workspace the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ws, err := appAndWorkspace(args[0])
		if err != nil {
			return err
		}
		if _, err := a.Workspaces.SetActive(a.Ctx(), ws.ID); err != nil {
			return err
		}
		success(cmd, a, "%s is active", ws.DisplayName())
		return nil
	},
}

var workspacesNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Activate the next workspace",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return stepActive(cmd, 1) },
}

var workspacesPrevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Activate the previous workspace",
	Args:    cobra.NoArgs,
	RunE:    func(cmd *cobra.Command, _ []string) error { return stepActive(cmd, -1) },
}

var workspacesMoveCmd = &cobra.Command{
	Use:   "move <workspace> <position>",
	Short: "Move a workspace to a 0-based position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[1], err)
		}
		a, ws, err := appAndWorkspace(args[0])
		if err != nil {
			return err
		}
		if err := a.Workspaces.Move(a.Ctx(), ws.ID, position); err != nil {
			return err
		}
		success(cmd, a, "moved %s", ws.DisplayName())
		return nil
	},
}

var workspacesSetCmd = &cobra.Command{
	Use:   "set <workspace> <field> <value>",
	Short: "Change one workspace field",
	Long: `Change one workspace field. Preference overrides (user_agent, proxy,
url rules, block_ads, extensions, color) are cleared with an empty value.`,
	Args: cobra.ExactArgs(3),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return cli.FieldNames(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ws, err := appAndWorkspace(args[0])
		if err != nil {
			return err
		}
		patch, err := cli.ParseField(ws, args[1], args[2])
		if err != nil {
			return err
		}
		updated, err := a.Workspaces.Update(a.Ctx(), ws.ID, patch)
		if err != nil {
			return err
		}
		success(cmd, a, "updated %s", updated.DisplayName())
		return nil
	},
}

var workspacesHibernateCmd = &cobra.Command{
	Use:   "hibernate <workspace>",
	Short: "Hibernate a workspace so it is not loaded on start",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHibernated(cmd, args[0], true)
	},
}

var workspacesWakeCmd = &cobra.Command{
	Use:   "wake <workspace>",
	Short: "Wake a hibernated workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHibernated(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(workspacesCmd)
	workspacesCmd.AddCommand(
		workspacesListCmd,
		workspacesShowCmd,
		workspacesAddCmd,
		workspacesRemoveCmd,
		workspacesActivateCmd,
		workspacesNextCmd,
		workspacesPrevCmd,
		workspacesMoveCmd,
		workspacesSetCmd,
		workspacesHibernateCmd,
		workspacesWakeCmd,
	)

	workspacesListCmd.Flags().BoolVar(&listJSON, "json", false, "print the workspaces as JSON")
	workspacesAddCmd.Flags().StringVar(&addName, "name", "", "display name")
	workspacesAddCmd.Flags().StringVar(&addURL, "url", "", "home URL")
	workspacesAddCmd.Flags().BoolVar(&addActivate, "activate", false, "make the new workspace active")
}

func appAndWorkspace(ref string) (*cli.App, *entity.Workspace, error) {
	a, err := GetApp()
	if err != nil {
		return nil, nil, err
	}
	ws, err := cli.FindWorkspace(a.Workspaces.List(), ref)
	if err != nil {
		return nil, nil, err
	}
	return a, ws, nil
}

func stepActive(cmd *cobra.Command, step int) error {
	a, err := GetApp()
	if err != nil {
		return err
	}
	list := a.Workspaces.List()
	if len(list) == 0 {
		return errors.New("no workspaces")
	}

	target := list[0]
	if active := a.Workspaces.Active(); active != nil {
		var next *entity.Workspace
		if step > 0 {
			next, err = a.Workspaces.Next(active.ID)
		} else {
			next, err = a.Workspaces.Previous(active.ID)
		}
		if err != nil {
			return err
		}
		target = next
	}
	if _, err := a.Workspaces.SetActive(a.Ctx(), target.ID); err != nil {
		return err
	}
	success(cmd, a, "%s is active", target.DisplayName())
	return nil
}

func setHibernated(cmd *cobra.Command, ref string, hibernated bool) error {
	a, ws, err := appAndWorkspace(ref)
	if err != nil {
		return err
	}
	if hibernated && ws.Active {
		return fmt.Errorf("%s: %w", ws.DisplayName(), coordinator.ErrWorkspaceActive)
	}
	if ws.Hibernated == hibernated {
		return nil
	}
	if _, err := a.Workspaces.Update(a.Ctx(), ws.ID, entity.WorkspacePatch{Hibernated: &hibernated}); err != nil {
		return err
	}
	if hibernated {
		success(cmd, a, "%s hibernated", ws.DisplayName())
	} else {
		success(cmd, a, "%s awake", ws.DisplayName())
	}
	return nil
}

func success(cmd *cobra.Command, a *cli.App, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.Theme.SuccessStyle.Render(styles.IconCheck), fmt.Sprintf(format, args...))
}

func warn(cmd *cobra.Command, a *cli.App, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", a.Theme.WarningStyle.Render(styles.IconWarning), fmt.Sprintf(format, args...))
}
