package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/render"
)

var completionsCmd = &cobra.Command{
	Use:   "completions",
	Short: "Create text completions",
}

var completionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a completion for a prompt",
	Long:  `Send a prompt to the completions endpoint and show the result. Option values given here update the session defaults for later invocations.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		rec := app.Defaults.Record()
		model := stringOption(cmd, "model", rec.ModelID, func(v string) {
			_ = app.Defaults.Set("MODEL_ID", v)
		})
		maxTokens := intOption(cmd, "max-tokens", rec.MaxTokens, func(v int64) {
			_ = app.Defaults.Set("MAX_TOKENS", v)
		})
		temperature := floatOption(cmd, "temperature", rec.Temperature, func(v float64) {
			_ = app.Defaults.Set("TEMPERATURE", v)
		})
		if err := rangedFloat("temperature", temperature, 0, 1); err != nil {
			return err
		}

		prompt, _ := cmd.Flags().GetString("prompt")
		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			return errMissingPrompt
		}

		suffix, _ := cmd.Flags().GetString("suffix")
		echo, _ := cmd.Flags().GetBool("echo")
		all, _ := cmd.Flags().GetBool("all")
		usage, _ := cmd.Flags().GetBool("usage")

		client, err := app.Client(ctx)
		if err != nil {
			return err
		}

		result, err := client.CreateCompletion(ctx, api.CompletionParams{
			Model:       model,
			Prompt:      prompt,
			Suffix:      suffix,
			MaxTokens:   int(maxTokens),
			Temperature: temperature,
			Echo:        echo,
		})
		if err != nil {
			return err
		}

		// Plain output only when the prompt is echoed back; otherwise the
		// prompt/completion record is rendered.
		if echo {
			printCompletion(os.Stdout, result.Text)
			return nil
		}

		columns, values := completionDisplay(prompt, result, all, usage)
		return render.Show(os.Stdout, columns, values, app.Options.Format)
	},
}

// completionDisplay builds the prompt/completion record, substituting the raw
// response for the text when requested and appending usage counts.
func completionDisplay(prompt string, result api.CompletionResult, all, usage bool) ([]string, []any) {
	columns := []string{"prompt", "completion"}
	completion := any(result.Text)
	if all {
		completion = result.Raw
	}
	values := []any{prompt, completion}
	if usage {
		names, counts := result.Usage.Pairs()
		columns = append(columns, names...)
		values = append(values, counts...)
	}
	return columns, values
}

func init() {
	flags := completionsCreateCmd.Flags()
	flags.StringP("model", "m", "", "Model to use (defaults to the stored MODEL_ID)")
	flags.String("prompt", "", "Prompt text (required)")
	flags.String("suffix", "", "Text appended after the completion insertion point")
	flags.Bool("echo", false, "Echo the prompt back along with the completion")
	flags.Int64("max-tokens", 0, "Maximum tokens to generate (defaults to the stored MAX_TOKENS)")
	flags.Float64("temperature", 0, "Sampling temperature in [0, 1] (defaults to the stored TEMPERATURE)")
	flags.BoolP("all", "a", false, "Show the raw API response instead of just the completion text")
	flags.BoolP("usage", "u", false, "Include token usage counts in the output")
	completionsCreateCmd.MarkFlagRequired("prompt")
	completionsCreateCmd.MarkFlagsMutuallyExclusive("all", "usage")

	completionsCmd.AddCommand(completionsCreateCmd)
}
