package validator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/andyle182810/tensorci/validator"
	"github.com/stretchr/testify/require"
)

type uploadFlags struct {
	File string `flag:"file" validate:"required"`
	Name string `flag:"name" validate:"omitempty,max=10"`
}

type envSettings struct {
	APIURL       string        `env:"API_URL"       validate:"required,url"`
	LogLevel     string        `env:"LOG_LEVEL"     validate:"oneof=debug info"`
	Timeout      time.Duration `env:"HTTP_TIMEOUT"  validate:"gte=0"`
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET" validate:"required_with=ClientID"`
	Retries      int           `validate:"max=3"`
}

func validSettings() envSettings {
	return envSettings{
		APIURL:       "https://api.tensorci.com",
		LogLevel:     "info",
		Timeout:      0,
		ClientID:     "",
		ClientSecret: "",
		Retries:      0,
	}
}

func TestDefault_ReturnsSharedInstance(t *testing.T) {
	t.Parallel()

	require.Same(t, validator.Default(), validator.Default())
}

func TestValidate_NamesFlagsWithDashes(t *testing.T) {
	t.Parallel()

	require.NoError(t, validator.New().Validate(uploadFlags{File: "dataset.json", Name: "mnist"}))

	err := validator.New().Validate(uploadFlags{File: "", Name: "much-too-long-name"})

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	require.Len(t, validationErrors, 2)
	require.Equal(t, "--file", validationErrors[0].Field)
	require.Equal(t, "required", validationErrors[0].Tag)
	require.EqualError(t, err, "--file is required; --name must be at most 10 characters")
}

func TestValidate_EnvSettingMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(s *envSettings)
		expected string
	}{
		{
			name:     "invalid url",
			mutate:   func(s *envSettings) { s.APIURL = "not a url" },
			expected: "API_URL must be a valid URL",
		},
		{
			name:     "oneof",
			mutate:   func(s *envSettings) { s.LogLevel = "loud" },
			expected: "LOG_LEVEL must be one of: debug, info",
		},
		{
			name:     "negative duration",
			mutate:   func(s *envSettings) { s.Timeout = -time.Second },
			expected: "HTTP_TIMEOUT must be at least 0",
		},
		{
			name:     "secret without client id is fine",
			mutate:   func(s *envSettings) { s.ClientSecret = "shh" },
			expected: "",
		},
		{
			name:     "client id needs secret",
			mutate:   func(s *envSettings) { s.ClientID = "ci-bot" },
			expected: "CLIENT_SECRET is required",
		},
		{
			name:     "untagged field uses struct name",
			mutate:   func(s *envSettings) { s.Retries = 4 },
			expected: "Retries must be at most 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := validSettings()
			tt.mutate(&settings)

			err := validator.New().Validate(settings)

			if tt.expected == "" {
				require.NoError(t, err)

				return
			}

			require.EqualError(t, err, tt.expected)
		})
	}
}

func TestValidate_NonStructReturnsRawError(t *testing.T) {
	t.Parallel()

	err := validator.New().Validate("not a struct")

	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.False(t, errors.As(err, &validationErrors))
}
