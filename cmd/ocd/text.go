package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/render"
	"github.com/davedittrich/ocd/pkg/textstat"
)

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Analyze local text files",
}

var textAnalyzeCmd = &cobra.Command{
	Use:   "analyze FILE [FILE...]",
	Short: "Report size, line, and token statistics for text files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		rows := make([][]any, 0, len(args))
		for _, path := range args {
			info, err := textstat.Analyze(ctx, path)
			if err != nil {
				return err
			}
			rows = append(rows, info.Values())
		}
		columns := []string{"name", "type", "bytes", "lines", "tokens"}
		return render.List(os.Stdout, columns, rows, app.Options.Format)
	},
}

func init() {
	textCmd.AddCommand(textAnalyzeCmd)
}
