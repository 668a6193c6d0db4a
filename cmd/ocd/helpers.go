package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errMissingPrompt = errors.New("prompt must not be empty")

// rangedFloat validates that value lies within [min, max], citing the range
// in the error message.
func rangedFloat(name string, value, min, max float64) error {
	if value < min || value > max {
		return errors.Errorf("%s must be in the range [%v, %v], got %v", name, min, max, value)
	}
	return nil
}

// rangedInt validates that value lies within [min, max], citing the range in
// the error message.
func rangedInt(name string, value, min, max int64) error {
	if value < min || value > max {
		return errors.Errorf("%s must be in the range [%d, %d], got %d", name, min, max, value)
	}
	return nil
}

// oneOf validates that value is one of the allowed choices.
func oneOf(name, value string, choices []string) error {
	for _, choice := range choices {
		if value == choice {
			return nil
		}
	}
	return errors.Errorf("%s must be one of %s, got %q", name, strings.Join(choices, ", "), value)
}

// stringOption returns the flag value when the flag was given on the command
// line, otherwise def. When the flag was given, track records the value so
// the session's defaults pick it up.
func stringOption(cmd *cobra.Command, flag, def string, track func(string)) string {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		if track != nil {
			track(value)
		}
		return value
	}
	return def
}

func intOption(cmd *cobra.Command, flag string, def int64, track func(int64)) int64 {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetInt64(flag)
		if track != nil {
			track(value)
		}
		return value
	}
	return def
}

func floatOption(cmd *cobra.Command, flag string, def float64, track func(float64)) float64 {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetFloat64(flag)
		if track != nil {
			track(value)
		}
		return value
	}
	return def
}

// printCompletion writes completion text to w, turning literal "\n" escape
// sequences in the response into real newlines.
func printCompletion(w io.Writer, text string) {
	fmt.Fprintln(w, strings.ReplaceAll(text, `\n`, "\n"))
}
