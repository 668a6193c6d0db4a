package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/render"
)

var editsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Create edits of existing text",
}

var editsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Apply an edit instruction to prompt text",
	Long:  `Send prompt text and an optional instruction to the edits endpoint and show the result. Requesting more than one candidate implies raw output.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		rec := app.Defaults.Record()
		model := stringOption(cmd, "model", rec.EditModelID, func(v string) {
			_ = app.Defaults.Set("EDIT_MODEL_ID", v)
		})
		n := intOption(cmd, "n", rec.N, func(v int64) {
			_ = app.Defaults.Set("N", v)
		})
		temperature := floatOption(cmd, "temperature", rec.Temperature, func(v float64) {
			_ = app.Defaults.Set("TEMPERATURE", v)
		})
		if err := rangedFloat("temperature", temperature, 0, 1); err != nil {
			return err
		}
		if err := rangedInt("n", n, 1, 10); err != nil {
			return err
		}

		prompt, _ := cmd.Flags().GetString("prompt")
		prompt = trimPromptRight(prompt)
		instruction, _ := cmd.Flags().GetString("instruction")
		all, _ := cmd.Flags().GetBool("all")
		usage, _ := cmd.Flags().GetBool("usage")

		// Multiple candidates only make sense in the raw response.
		if n > 1 {
			all = true
			usage = false
		}

		client, err := app.Client(ctx)
		if err != nil {
			return err
		}

		result, err := client.CreateEdit(ctx, api.EditParams{
			Model:       model,
			Input:       prompt,
			Instruction: instruction,
			N:           int(n),
			Temperature: temperature,
		})
		if err != nil {
			return err
		}

		if !all && !usage {
			printCompletion(os.Stdout, result.Text())
			return nil
		}

		columns := []string{"prompt", "instruction", "completion"}
		edit := any(result.Text())
		if all {
			edit = result.Raw
		}
		values := []any{prompt, instruction, edit}
		if usage {
			names, counts := result.Usage.Pairs()
			columns = append(columns, names...)
			values = append(values, counts...)
		}
		return render.Show(os.Stdout, columns, values, app.Options.Format)
	},
}

// trimPromptRight strips trailing whitespace from the prompt while keeping
// any leading indentation intact.
func trimPromptRight(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}

func init() {
	flags := editsCreateCmd.Flags()
	flags.StringP("model", "m", "", "Model to use (defaults to the stored EDIT_MODEL_ID)")
	flags.String("prompt", "", "Prompt text to edit (required)")
	flags.String("instruction", "", "Instruction describing the edit")
	flags.Int64P("n", "n", 0, "Number of edit candidates in [1, 10] (defaults to the stored N)")
	flags.Float64("temperature", 0, "Sampling temperature in [0, 1] (defaults to the stored TEMPERATURE)")
	flags.BoolP("all", "a", false, "Show the raw API response instead of just the edited text")
	flags.BoolP("usage", "u", false, "Include token usage counts in the output")
	editsCreateCmd.MarkFlagRequired("prompt")
	editsCreateCmd.MarkFlagsMutuallyExclusive("all", "usage")

	editsCmd.AddCommand(editsCreateCmd)
}
