package main

import (
	"fmt"
	"io"

	"github.com/andyle182810/tensorci/apierror"
	"github.com/andyle182810/tensorci/authtoken"
	"github.com/andyle182810/tensorci/config"
	"github.com/andyle182810/tensorci/dataset"
	"github.com/andyle182810/tensorci/httpclient"
	"github.com/andyle182810/tensorci/logutil"
	"github.com/andyle182810/tensorci/progress"
	"github.com/andyle182810/tensorci/session"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func newApp(stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tensorci",
		Usage:     "Command line interface for TensorCI",
		Version:   version,
		Writer:    stderr,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Base URL of the TensorCI API (overrides TENSORCI_API_URL)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: trace, debug, info, warn, error (overrides TENSORCI_LOG_LEVEL)",
			},
			&cli.PathFlag{
				Name:  "session-file",
				Usage: "Path to the stored session (overrides TENSORCI_SESSION_FILE)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create resources on TensorCI",
				Subcommands: []*cli.Command{
					dataset.Command(uploaderFactory(stderr)),
				},
			},
		},
		// Exit codes are decided by main so tests can run the app in-process.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if c.IsSet("api-url") {
		cfg.APIURL = c.String("api-url")
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if c.IsSet("session-file") {
		cfg.SessionFile = c.Path("session-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func uploaderFactory(stderr io.Writer) dataset.UploaderFactory {
	return func(c *cli.Context) (*dataset.Uploader, error) {
		cfg, err := loadConfig(c)
		if err != nil {
			return nil, err
		}

		logger := logutil.NewConsoleLogger(stderr, cfg.LogLevel)

		sess, err := loadSession(cfg)
		if err != nil {
			return nil, err
		}

		client := newAPIClient(cfg, sess, logger)

		bar := progress.New(stderr, progress.WithLabel("Uploading dataset"))

		return dataset.NewUploader(client, sess, apierror.NewHandler(logger),
			dataset.WithLogger(logger),
			dataset.WithProgress(bar.Callback()),
		), nil
	}
}

func loadSession(cfg *config.Config) (*session.Session, error) {
	opts := []session.Option{session.WithToken(cfg.Token)}

	if cfg.UsesServiceAccount() {
		tokens := authtoken.New(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret)
		opts = append(opts, session.WithTokenSource(tokens.GetToken))
	}

	sess, err := session.Load(cfg.SessionFile, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return sess, nil
}

// newAPIClient builds the client used for every API call. A zero timeout
// leaves uploads unbounded.
func newAPIClient(cfg *config.Config, sess *session.Session, logger zerolog.Logger) *httpclient.Client {
	return httpclient.New(cfg.APIURL,
		httpclient.WithAuth(cfg.AuthHeaderName, sess.AuthValue()),
		httpclient.WithTimeout(cfg.HTTPTimeout),
		httpclient.WithUserAgent("tensorci-cli/"+version),
		httpclient.WithLogger(logger),
	)
}
