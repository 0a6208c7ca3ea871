package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/andyle182810/tensorci/httpclient"
	"github.com/andyle182810/tensorci/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSessionFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_ReadsCredentials(t *testing.T) {
	t.Parallel()

	path := writeSessionFile(t, `{"token": "abc", "team_slug": "acme", "prediction_slug": "house-prices"}`)

	sess, err := session.Load(path)
	require.NoError(t, err)
	require.NoError(t, sess.AuthRequired())

	payload, err := sess.TeamPredictionPayload()
	require.NoError(t, err)

	team, _ := payload.Get(session.FieldTeamSlug)
	prediction, _ := payload.Get(session.FieldPredictionSlug)
	require.Equal(t, "acme", team)
	require.Equal(t, "house-prices", prediction)
}

func TestLoad_MissingFileYieldsUnauthenticatedSession(t *testing.T) {
	t.Parallel()

	sess, err := session.Load(filepath.Join(t.TempDir(), "missing.json"))

	require.NoError(t, err)
	require.ErrorIs(t, sess.AuthRequired(), session.ErrNotAuthenticated)
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := session.Load(writeSessionFile(t, "{not json"))

	require.ErrorIs(t, err, session.ErrReadSession)
}

func TestWithToken_OverridesStoredToken(t *testing.T) {
	t.Parallel()

	path := writeSessionFile(t, `{"team_slug": "acme", "prediction_slug": "house-prices"}`)

	sess, err := session.Load(path, session.WithToken("from-env"))
	require.NoError(t, err)
	require.NoError(t, sess.AuthRequired())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "from-env", r.Header.Get("TensorCI-Api-Token"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, httpclient.WithAuth("TensorCI-Api-Token", sess.AuthValue()))

	_, err = client.Get(t.Context(), "/")
	require.NoError(t, err)
}

func TestWithTokenSource_SatisfiesAuthRequired(t *testing.T) {
	t.Parallel()

	sess := session.New(session.Credentials{}, session.WithTokenSource(func(context.Context) (string, error) {
		return "service-token", nil
	}))

	require.NoError(t, sess.AuthRequired())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-token", r.Header.Get("X-Auth"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, httpclient.WithAuth("X-Auth", sess.AuthValue()))

	_, err := client.Get(t.Context(), "/")
	require.NoError(t, err)
}

func TestTeamPredictionPayload_RequiresSlugs(t *testing.T) {
	t.Parallel()

	sess := session.New(session.Credentials{Token: "abc", TeamSlug: "acme", PredictionSlug: ""})

	_, err := sess.TeamPredictionPayload()

	require.ErrorIs(t, err, session.ErrNoPrediction)
}

func TestTeamPredictionPayload_ReturnsFreshPayload(t *testing.T) {
	t.Parallel()

	sess := session.New(session.Credentials{Token: "abc", TeamSlug: "acme", PredictionSlug: "house-prices"})

	first, err := sess.TeamPredictionPayload()
	require.NoError(t, err)

	first.Set(session.FieldPredictionSlug, "mutated")

	second, err := sess.TeamPredictionPayload()
	require.NoError(t, err)

	prediction, _ := second.Get(session.FieldPredictionSlug)
	require.Equal(t, "house-prices", prediction)
}
