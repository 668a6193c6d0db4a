package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davedittrich/ocd/pkg/apikey"
	"github.com/davedittrich/ocd/pkg/browser"
	"github.com/davedittrich/ocd/pkg/logger"
	"github.com/davedittrich/ocd/pkg/presenter"
	"github.com/davedittrich/ocd/pkg/render"
	"github.com/davedittrich/ocd/pkg/secrets"
)

func init() {
	// Environment variables
	viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai_organization_id", "OPENAI_ORGANIZATION_ID")

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.ocd")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:           "ocd",
	Short:         "OpenAI API command line interface",
	Long:          `ocd is a command line interface to the OpenAI API for completions, edits, image generation, model inspection, and local text analysis.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		presenter.SetQuiet(viper.GetBool("quiet"))
		return logger.SetLogLevel(viper.GetString("log_level"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	// Add global flags
	rootCmd.PersistentFlags().String("api-base", "", "Override the API base URL")
	rootCmd.PersistentFlags().String("browser", browser.Default(), "Browser command for opening web pages")
	rootCmd.PersistentFlags().Bool("force-browser", false, "Open the browser even when stdin is not a TTY")
	rootCmd.PersistentFlags().Bool("elapsed", false, "Print elapsed time on exit")
	rootCmd.PersistentFlags().StringP("environment", "e", secrets.DefaultEnvironment(), "Secrets environment to use")
	rootCmd.PersistentFlags().String("format", "table", "Output format (table or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")

	// Bind flags to viper
	viper.BindPFlag("api_base", rootCmd.PersistentFlags().Lookup("api-base"))
	viper.BindPFlag("browser", rootCmd.PersistentFlags().Lookup("browser"))
	viper.BindPFlag("force_browser", rootCmd.PersistentFlags().Lookup("force-browser"))
	viper.BindPFlag("elapsed", rootCmd.PersistentFlags().Lookup("elapsed"))
	viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	// Add subcommands
	rootCmd.AddCommand(aboutCmd)
	rootCmd.AddCommand(completionsCmd)
	rootCmd.AddCommand(editsCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(fineTuneCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(versionCmd)

	// Execute
	start := time.Now()
	err := rootCmd.Execute()
	if viper.GetBool("elapsed") {
		fmt.Fprintf(os.Stderr, "[+] elapsed time %s\n", time.Since(start).Round(time.Millisecond))
	}
	if err != nil {
		if errors.Is(err, apikey.ErrDeclined) {
			presenter.Info("API key setup declined")
			os.Exit(0)
		}
		if !errors.Is(err, render.ErrNoRows) {
			presenter.Error(err, "")
		}
		os.Exit(1)
	}
}
