package dataset

import (
	"github.com/urfave/cli/v2"
)

const exitFailure = 1

// UploaderFactory builds the uploader once flags have been parsed.
type UploaderFactory func(c *cli.Context) (*Uploader, error)

func Command(newUploader UploaderFactory) *cli.Command {
	var in Input

	return &cli.Command{
		Name:  "dataset",
		Usage: "Upload a JSON dataset for the current prediction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "Dataset name (defaults to the prediction slug)",
				Destination: &in.Name,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Required:    true,
				Usage:       "Path to the JSON dataset file",
				Destination: &in.File,
			},
		},
		Action: func(c *cli.Context) error {
			uploader, err := newUploader(c)
			if err != nil {
				return err
			}

			if _, err := uploader.Run(c.Context, in); err != nil {
				// Already reported by the uploader.
				return cli.Exit("", exitFailure)
			}

			return nil
		},
	}
}
