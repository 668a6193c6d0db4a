package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/browser"
	"github.com/davedittrich/ocd/pkg/render"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect available models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the models available to your account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		client, err := app.Client(ctx)
		if err != nil {
			return err
		}

		models, err := client.ListModels(ctx)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(models))
		for _, model := range models {
			rows = append(rows, model.Values())
		}
		columns := []string{"id", "object", "created", "owned_by", "root", "parent"}
		return render.List(os.Stdout, columns, rows, app.Options.Format)
	},
}

var modelsRetrieveCmd = &cobra.Command{
	Use:   "retrieve MODEL_ID",
	Short: "Show the details of one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		client, err := app.Client(ctx)
		if err != nil {
			return err
		}

		model, err := client.RetrieveModel(ctx, args[0])
		if err != nil {
			return err
		}

		columns := model.Columns()
		values := model.Values()
		if len(model.Permissions) == 1 {
			permission := model.Permissions[0]
			for _, column := range permission.Columns() {
				columns = append(columns, "permission_"+column)
			}
			values = append(values, permission.Values()...)
		}
		return render.Show(os.Stdout, columns, values, app.Options.Format)
	},
}

var modelsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Open the models overview documentation in a browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := globalOptions()
		if err != nil {
			return err
		}
		return browser.Open(cmd.Context(), openaiDocsBase+"/models/overview", opts.Browser, opts.ForceBrowser)
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsRetrieveCmd)
	modelsCmd.AddCommand(modelsOverviewCmd)
}
