package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/presenter"
	"github.com/davedittrich/ocd/pkg/render"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Manage the persisted option defaults",
}

var defaultsListCmd = &cobra.Command{
	Use:   "list [NAME...]",
	Short: "List the stored defaults",
	Long:  `List the stored defaults, optionally restricted to the named fields. With '--fuzzy', names match as case-insensitive substrings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		fuzzy, _ := cmd.Flags().GetBool("fuzzy")

		rows := make([][]any, 0)
		for _, row := range app.Defaults.Table() {
			if !matchName(row.Name, args, fuzzy) {
				continue
			}
			rows = append(rows, []any{row.Name, string(row.Kind), row.Value})
		}
		columns := []string{"name", "type", "value"}
		return render.List(os.Stdout, columns, rows, app.Options.Format)
	},
}

// matchName reports whether name matches any of the patterns. No patterns
// matches everything.
func matchName(name string, patterns []string, fuzzy bool) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if fuzzy {
			if strings.Contains(strings.ToLower(name), strings.ToLower(pattern)) {
				return true
			}
		} else if name == pattern {
			return true
		}
	}
	return false
}

var defaultsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all defaults to their built-in values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		app.Defaults.ResetToDefaults()
		if err := app.Defaults.Save(ctx); err != nil {
			return err
		}
		presenter.Success("reset defaults to built-in values")
		return nil
	},
}

var defaultsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the defaults database file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}

		path := app.Defaults.Path()
		if err := app.Defaults.Delete(ctx); err != nil {
			return err
		}
		presenter.Success("deleted " + path)
		return nil
	},
}

func init() {
	defaultsListCmd.Flags().Bool("fuzzy", false, "Match names as case-insensitive substrings")

	defaultsCmd.AddCommand(defaultsListCmd)
	defaultsCmd.AddCommand(defaultsResetCmd)
	defaultsCmd.AddCommand(defaultsDeleteCmd)
}
