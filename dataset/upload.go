package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/andyle182810/tensorci/formdata"
	"github.com/andyle182810/tensorci/httpclient"
	"github.com/andyle182810/tensorci/validator"
	"github.com/rs/zerolog"
)

const (
	Route           = "/dataset"
	FieldSlug       = "dataset_slug"
	FieldFile       = "file"
	UploadFilename  = "dataset.json"
	FileContentType = "application/json"
	fileExtension   = ".json"
)

var (
	ErrFileNotFound     = errors.New("dataset: file not found")
	ErrNotJSONFile      = errors.New("dataset: file is not JSON")
	ErrInvalidName      = errors.New("dataset: name has no usable characters")
	ErrUnexpectedStatus = errors.New("dataset: unexpected response status")
)

type Poster interface {
	Post(ctx context.Context, route string, opts ...httpclient.RequestOption) (*httpclient.Response, error)
}

type Session interface {
	AuthRequired() error
	TeamPredictionPayload() (*formdata.Payload, error)
}

type ErrorHandler interface {
	HandleError(reqErr *httpclient.RequestError) string
}

// File is an open dataset file. *os.File satisfies it.
type File interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

// OpenFunc opens the dataset file at path for streaming.
type OpenFunc func(path string) (File, error)

type Input struct {
	Name string `flag:"name" validate:"omitempty,max=100"`
	File string `flag:"file" validate:"required"`
}

type Uploader struct {
	client   Poster
	session  Session
	errors   ErrorHandler
	logger   zerolog.Logger
	progress formdata.ProgressFunc
	open     OpenFunc
}

type Option func(*Uploader)

func WithLogger(logger zerolog.Logger) Option {
	return func(u *Uploader) {
		u.logger = logger
	}
}

func WithProgress(fn formdata.ProgressFunc) Option {
	return func(u *Uploader) {
		u.progress = fn
	}
}

func WithOpener(open OpenFunc) Option {
	return func(u *Uploader) {
		if open != nil {
			u.open = open
		}
	}
}

func openFile(path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return file, nil
}

func NewUploader(client Poster, sess Session, errHandler ErrorHandler, opts ...Option) *Uploader {
	u := &Uploader{
		client:   client,
		session:  sess,
		errors:   errHandler,
		logger:   zerolog.Nop(),
		progress: nil,
		open:     openFile,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Run uploads the file named by in and returns the dataset slug. Every
// failure is logged before it is returned.
func (u *Uploader) Run(ctx context.Context, in Input) (string, error) {
	if err := validator.Default().Validate(in); err != nil {
		u.logger.Error().Msg(err.Error())

		return "", fmt.Errorf("invalid input: %w", err)
	}

	if err := u.session.AuthRequired(); err != nil {
		u.logger.Error().Msg("You must be logged in to create a dataset.")

		return "", err
	}

	payload, err := u.session.TeamPredictionPayload()
	if err != nil {
		u.logger.Error().Err(err).Msg("Could not determine the team and prediction for this dataset.")

		return "", err
	}

	datasetSlug, err := ResolveSlug(in.Name, payload)
	if err != nil {
		u.logger.Error().Str("name", in.Name).Msg("Could not derive a dataset slug from the given name.")

		return "", err
	}

	payload.Set(FieldSlug, datasetSlug)

	if err := checkFile(in.File); err != nil {
		if errors.Is(err, ErrNotJSONFile) {
			u.logger.Error().Msg("Dataset must be a JSON file (i.e. dataset.json)")
		} else {
			u.logger.Error().Msgf("No file found at path %s", in.File)
		}

		return "", err
	}

	if err := u.upload(ctx, in.File, payload); err != nil {
		return "", err
	}

	u.logger.Info().Str("dataset_slug", datasetSlug).Msgf("Successfully created dataset, %s.", datasetSlug)

	return datasetSlug, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if !strings.HasSuffix(path, fileExtension) {
		return fmt.Errorf("%w: %s", ErrNotJSONFile, path)
	}

	return nil
}

func (u *Uploader) upload(ctx context.Context, path string, payload *formdata.Payload) error {
	file, err := u.open(path)
	if err != nil {
		u.logger.Error().Err(err).Msgf("Could not open %s", path)

		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		u.logger.Error().Err(err).Msgf("Could not read %s", path)

		return fmt.Errorf("failed to stat dataset file: %w", err)
	}

	payload.SetFile(FieldFile, formdata.File{
		Filename:    UploadFilename,
		Reader:      file,
		ContentType: FileContentType,
		Size:        info.Size(),
	})

	encoder, err := formdata.NewEncoder(payload)
	if err != nil {
		u.logger.Error().Err(err).Msg("Could not build the upload.")

		return err
	}

	monitor := formdata.NewMonitor(encoder, u.progress)

	resp, err := u.client.Post(ctx, Route,
		httpclient.WithBody(monitor, monitor.Len()),
		httpclient.WithHeader(httpclient.HeaderContentType, monitor.ContentType()),
		httpclient.WithSuccessStatus(http.StatusCreated),
		httpclient.WithErrorMessage("Failed to create dataset"),
	)

	return u.checkResponse(resp, err)
}

// checkResponse treats only 201 Created as success.
func (u *Uploader) checkResponse(resp *httpclient.Response, err error) error {
	if reqErr, ok := httpclient.AsRequestError(err); ok {
		u.errors.HandleError(reqErr)

		return err
	}

	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to upload dataset.")

		return err
	}

	if resp == nil {
		u.logger.Error().Msg("Failed to upload dataset: no response.")

		return fmt.Errorf("%w: no response", ErrUnexpectedStatus)
	}

	if resp.StatusCode != http.StatusCreated {
		u.errors.HandleError(httpclient.NewRequestError(resp.StatusCode, "Failed to create dataset", resp.Data, resp.RequestID))

		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}
