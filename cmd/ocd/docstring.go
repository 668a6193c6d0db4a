package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/presenter"
)

// pythonVersions are the versions the docstring prompt may target. Comparing
// versions as floats truncates "3.10" to 3.1, so they are matched as strings.
var pythonVersions = []string{"3.7", "3.8", "3.9", "3.10"}

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Code-oriented generation helpers",
}

var codePythonCmd = &cobra.Command{
	Use:   "python",
	Short: "Python code helpers",
}

var codePythonDocstringCmd = &cobra.Command{
	Use:   "docstring",
	Short: "Generate a docstring for Python code",
	Long: `Generate a docstring for a piece of Python code.

By default this command works like a filter, reading code from standard
input and writing the docstring to standard output. Use '--source' to read
the code from a file and '--destination' to write the result to a file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		pythonVersion, _ := cmd.Flags().GetString("python-version")
		if err := oneOf("python-version", pythonVersion, pythonVersions); err != nil {
			return err
		}

		rec := app.Defaults.Record()
		model := stringOption(cmd, "model", rec.CodexModelID, func(v string) {
			_ = app.Defaults.Set("CODEX_MODEL_ID", v)
		})
		temperature := floatOption(cmd, "temperature", rec.CodexTemperature, func(v float64) {
			_ = app.Defaults.Set("CODEX_TEMPERATURE", v)
		})
		maxTokens := intOption(cmd, "max-tokens", rec.CodexMaxTokens, func(v int64) {
			_ = app.Defaults.Set("CODEX_MAX_TOKENS", v)
		})
		if err := rangedFloat("temperature", temperature, 0, 1); err != nil {
			return err
		}

		topP, _ := cmd.Flags().GetFloat64("top-p")
		frequencyPenalty, _ := cmd.Flags().GetFloat64("frequency-penalty")
		presencePenalty, _ := cmd.Flags().GetFloat64("presence-penalty")
		source, _ := cmd.Flags().GetString("source")
		destination, _ := cmd.Flags().GetString("destination")

		var code []byte
		if source == "-" {
			code, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "failed to read code from stdin")
			}
		} else {
			code, err = os.ReadFile(source)
			if err != nil {
				return errors.Wrap(err, "failed to read source file")
			}
		}

		prompt := docstringPrompt(pythonVersion, string(code))

		client, err := app.Client(ctx)
		if err != nil {
			return err
		}

		result, err := client.CreateCompletion(ctx, api.CompletionParams{
			Model:            model,
			Prompt:           prompt,
			MaxTokens:        int(maxTokens),
			Temperature:      temperature,
			TopP:             topP,
			FrequencyPenalty: frequencyPenalty,
			PresencePenalty:  presencePenalty,
			Stop:             []string{"#", `"""`},
		})
		if err != nil {
			return err
		}

		if result.FinishReason != "stop" {
			presenter.Warning(fmt.Sprintf("completion did not stop normally: %s", result.FinishReason))
		}

		docstring := fmt.Sprintf("\"\"\"\n%s\n\"\"\"\n", result.Text)
		if destination == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), docstring)
			return nil
		}
		if err := os.WriteFile(destination, []byte(docstring), 0o644); err != nil {
			return errors.Wrap(err, "failed to write destination file")
		}
		return nil
	},
}

// docstringPrompt frames the code so the model continues with the body of a
// docstring, stopping at the closing quotes.
func docstringPrompt(pythonVersion, code string) string {
	return fmt.Sprintf(
		"# Python %s\n\n%s\n# An elaborate, high quality docstring for the above function:\n\"\"\"",
		pythonVersion, code,
	)
}

func init() {
	flags := codePythonDocstringCmd.Flags()
	flags.String("python-version", "3.10", "Python version to target (3.7, 3.8, 3.9, or 3.10)")
	flags.StringP("model", "m", "", "Model to use (defaults to the stored CODEX_MODEL_ID)")
	flags.Float64("temperature", 0, "Sampling temperature in [0, 1] (defaults to the stored CODEX_TEMPERATURE)")
	flags.Int64("max-tokens", 0, "Maximum tokens to generate (defaults to the stored CODEX_MAX_TOKENS)")
	flags.Float64("top-p", 1.0, "Nucleus sampling probability mass")
	flags.Float64("frequency-penalty", 0.0, "Frequency penalty")
	flags.Float64("presence-penalty", 0.0, "Presence penalty")
	flags.String("source", "-", "Read code from a file instead of stdin")
	flags.String("destination", "-", "Write the docstring to a file instead of stdout")

	codePythonCmd.AddCommand(codePythonDocstringCmd)
	codeCmd.AddCommand(codePythonCmd)
}
