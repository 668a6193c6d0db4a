package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/render"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show API connection status",
	Long:  `Report whether an API key is configured, whether the API accepts it, and the organization in use. Never triggers the interactive key setup.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		key, err := app.ResolveKey(ctx, false)
		if err != nil {
			return err
		}

		client := newAPIClient(api.Config{
			APIKey:       key,
			Organization: app.Organization(),
			APIBase:      app.Options.APIBase,
		})

		granted := false
		if key != "" {
			_, err := client.ListModels(ctx)
			switch {
			case err == nil:
				granted = true
			case api.IsAuthError(err):
				granted = false
			default:
				return err
			}
		}

		columns := []string{"api_key_set", "api_access_granted", "organization"}
		values := []any{key != "", granted, app.Organization()}
		return render.Show(os.Stdout, columns, values, app.Options.Format)
	},
}
