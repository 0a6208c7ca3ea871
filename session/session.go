package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/andyle182810/tensorci/formdata"
	"github.com/andyle182810/tensorci/httpclient"
)

const (
	FieldTeamSlug       = "team_slug"
	FieldPredictionSlug = "prediction_slug"
)

var (
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrNoPrediction     = errors.New("session: no team or prediction selected")
	ErrReadSession      = errors.New("session: failed to read session file")
)

//nolint:tagliatelle
type Credentials struct {
	Token          string `json:"token"`
	TeamSlug       string `json:"team_slug"`
	PredictionSlug string `json:"prediction_slug"`
}

// Session holds the locally stored credentials and the team/prediction the
// user is working on.
type Session struct {
	creds       Credentials
	tokenSource httpclient.TokenFunc
}

type Option func(*Session)

// WithToken overrides the stored token.
func WithToken(token string) Option {
	return func(s *Session) {
		if token != "" {
			s.creds.Token = token
		}
	}
}

// WithTokenSource makes every request ask fn for the current token instead of
// using the stored one.
func WithTokenSource(fn httpclient.TokenFunc) Option {
	return func(s *Session) {
		s.tokenSource = fn
	}
}

func New(creds Credentials, opts ...Option) *Session {
	s := &Session{
		creds:       creds,
		tokenSource: nil,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads credentials from path. A missing file yields an empty session.
func Load(path string, opts ...Option) (*Session, error) {
	var creds Credentials

	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		// not logged in yet
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrReadSession, err)
	default:
		if err := json.Unmarshal(data, &creds); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadSession, path, err)
		}
	}

	return New(creds, opts...), nil
}

func (s *Session) AuthRequired() error {
	if s.tokenSource == nil && s.creds.Token == "" {
		return ErrNotAuthenticated
	}

	return nil
}

// TeamPredictionPayload returns a fresh payload carrying the team and
// prediction identifiers.
func (s *Session) TeamPredictionPayload() (*formdata.Payload, error) {
	if s.creds.TeamSlug == "" || s.creds.PredictionSlug == "" {
		return nil, ErrNoPrediction
	}

	return formdata.NewPayload().
		Set(FieldTeamSlug, s.creds.TeamSlug).
		Set(FieldPredictionSlug, s.creds.PredictionSlug), nil
}

func (s *Session) AuthValue() httpclient.AuthValue {
	if s.tokenSource != nil {
		return httpclient.ProviderAuth(s.tokenSource)
	}

	return httpclient.StaticAuth(s.creds.Token)
}
