package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/render"
)

var fineTuneCmd = &cobra.Command{
	Use:   "fine-tune",
	Short: "Inspect fine-tune jobs",
}

var fineTuneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your fine-tune jobs",
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

		jobs, err := client.ListFineTunes(ctx)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(jobs))
		for _, job := range jobs {
			rows = append(rows, job.Values())
		}
		columns := []string{
			"id", "object", "model", "fine_tuned_model",
			"organization_id", "status", "created_at", "updated_at",
		}
		return render.List(os.Stdout, columns, rows, app.Options.Format)
	},
}

func init() {
	fineTuneCmd.AddCommand(fineTuneListCmd)
}
