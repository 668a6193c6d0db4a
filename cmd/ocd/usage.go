package main

import (
	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/browser"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Open the account usage page in a browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := globalOptions()
		if err != nil {
			return err
		}
		return browser.Open(cmd.Context(), openaiBase+"/account/usage", opts.Browser, opts.ForceBrowser)
	},
}
