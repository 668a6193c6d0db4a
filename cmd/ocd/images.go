package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/browser"
	"github.com/davedittrich/ocd/pkg/defaults"
	"github.com/davedittrich/ocd/pkg/logger"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Generate images from prompts",
}

var imagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one or more images from a prompt",
	Long:  `Generate images from a text prompt. Base64 responses are written to numbered PNG files and opened in a browser; URL responses are opened directly.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		rec := app.Defaults.Record()
		n := intOption(cmd, "n", rec.ImagesN, func(v int64) {
			_ = app.Defaults.Set("IMAGES_N", v)
		})
		size := stringOption(cmd, "size", rec.ImagesSize, func(v string) {
			_ = app.Defaults.Set("IMAGES_SIZE", v)
		})
		responseFormat := stringOption(cmd, "response-format", rec.ImagesResponseFormat, func(v string) {
			_ = app.Defaults.Set("IMAGES_RESPONSE_FORMAT", v)
		})

		if err := rangedInt("n", n, 1, rec.ImagesMaxN); err != nil {
			return err
		}
		if err := oneOf("size", size, defaults.Choices["IMAGES_SIZE"]); err != nil {
			return err
		}
		if err := oneOf("response-format", responseFormat, defaults.Choices["IMAGES_RESPONSE_FORMAT"]); err != nil {
			return err
		}

		prompt, _ := cmd.Flags().GetString("prompt")
		if prompt == "" {
			return errMissingPrompt
		}
		if int64(len(prompt)) > rec.ImagesMaxPrompt {
			return errors.Errorf("prompt cannot exceed %d characters", rec.ImagesMaxPrompt)
		}

		basename, _ := cmd.Flags().GetString("basename")
		force, _ := cmd.Flags().GetBool("force")

		// Pre-generate file names so no time is wasted generating images
		// that could not be written afterwards.
		var paths []string
		if responseFormat == "b64_json" {
			for i := int64(0); i < n; i++ {
				path := fmt.Sprintf("%s_%d.png", basename, i)
				if !force {
					if _, err := os.Stat(path); err == nil {
						return errors.Errorf("file exists (use '--force' to overwrite): %s", path)
					}
				}
				paths = append(paths, path)
			}
		}

		client, err := app.Client(ctx)
		if err != nil {
			return err
		}

		images, err := client.CreateImages(ctx, api.ImageParams{
			Prompt:         prompt,
			N:              int(n),
			Size:           size,
			ResponseFormat: responseFormat,
		})
		if err != nil {
			return err
		}

		for i, image := range images {
			var page string
			switch {
			case image.B64JSON != "":
				if i >= len(paths) {
					return errors.New("more images returned than file names prepared")
				}
				if err := writeImage(ctx, paths[i], image.B64JSON); err != nil {
					return err
				}
				absPath, err := filepath.Abs(paths[i])
				if err != nil {
					return errors.Wrap(err, "failed to resolve image path")
				}
				page = "file://" + absPath
			case image.URL != "":
				page = image.URL
			default:
				return errors.New("unsupported image type in response")
			}
			if err := browser.Open(ctx, page, app.Options.Browser, app.Options.ForceBrowser); err != nil {
				return err
			}
		}
		return nil
	},
}

// writeImage decodes a base64 PNG payload, validates it, and writes it out.
func writeImage(ctx context.Context, path, b64JSON string) error {
	data, err := base64.StdEncoding.DecodeString(b64JSON)
	if err != nil {
		return errors.Wrap(err, "failed to decode image data")
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, "response did not contain a valid PNG image")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write image file")
	}
	logger.G(ctx).WithField("path", path).Info("wrote image to file")
	return nil
}

func init() {
	flags := imagesCreateCmd.Flags()
	flags.String("prompt", "", "Text description of the desired image(s) (required)")
	flags.String("basename", "IMAGE", "Basename of the generated image file(s)")
	flags.Int64P("n", "n", 0, "Number of images to generate (defaults to the stored IMAGES_N)")
	flags.String("size", "", "Image size (defaults to the stored IMAGES_SIZE)")
	flags.String("response-format", "", "Response format, b64_json or url (defaults to the stored IMAGES_RESPONSE_FORMAT)")
	flags.Bool("force", false, "Overwrite existing image files")
	imagesCreateCmd.MarkFlagRequired("prompt")

	imagesCmd.AddCommand(imagesCreateCmd)
}
