package formdata_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/andyle182810/tensorci/formdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datasetJSON = `[{"input": [1, 2], "output": 3}]`

func newDatasetPayload() *formdata.Payload {
	return formdata.NewPayload().
		Set("team_slug", "acme").
		Set("prediction_slug", "house-prices").
		Set("dataset_slug", "house-prices").
		SetFile("file", formdata.File{
			Filename:    "dataset.json",
			Reader:      strings.NewReader(datasetJSON),
			ContentType: "application/json",
			Size:        int64(len(datasetJSON)),
		})
}

func TestPayload_SetReplacesInPlace(t *testing.T) {
	t.Parallel()

	payload := formdata.NewPayload().Set("a", "1").Set("b", "2").Set("a", "3")

	fields := payload.Fields()
	require.Len(t, fields, 2)
	require.Equal(t, "a", fields[0].Name)
	require.Equal(t, "3", fields[0].Value)

	value, ok := payload.Get("a")
	require.True(t, ok)
	require.Equal(t, "3", value)
}

func TestPayload_GetIgnoresFileFields(t *testing.T) {
	t.Parallel()

	payload := newDatasetPayload()

	_, ok := payload.Get("file")
	require.False(t, ok)
	require.True(t, payload.Has("file"))
	require.Equal(t, 4, payload.Len())
}

func TestEncoder_EncodesFieldsInOrder(t *testing.T) {
	t.Parallel()

	encoder, err := formdata.NewEncoder(newDatasetPayload())
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(encoder.ContentType())
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)
	require.Equal(t, encoder.Boundary(), params["boundary"])

	body, err := io.ReadAll(encoder)
	require.NoError(t, err)
	require.Equal(t, int64(len(body)), encoder.Len())

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	var names []string

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}

		require.NoError(t, err)

		content, err := io.ReadAll(part)
		require.NoError(t, err)

		names = append(names, part.FormName())

		if part.FormName() == "file" {
			assert.Equal(t, "dataset.json", part.FileName())
			assert.Equal(t, "application/json", part.Header.Get("Content-Type"))
			assert.Equal(t, datasetJSON, string(content))
		}

		if part.FormName() == "dataset_slug" {
			assert.Equal(t, "house-prices", string(content))
		}
	}

	require.Equal(t, []string{"team_slug", "prediction_slug", "dataset_slug", "file"}, names)
}

func TestEncoder_FieldsAfterFileAreEncoded(t *testing.T) {
	t.Parallel()

	payload := formdata.NewPayload().
		SetFile("file", formdata.File{
			Filename:    "a.bin",
			Reader:      strings.NewReader("abc"),
			ContentType: "",
			Size:        3,
		}).
		Set("after", "value")

	encoder, err := formdata.NewEncoder(payload, formdata.WithBoundary("fixedboundary"))
	require.NoError(t, err)

	body, err := io.ReadAll(encoder)
	require.NoError(t, err)
	require.Equal(t, int64(len(body)), encoder.Len())

	form, err := multipart.NewReader(bytes.NewReader(body), "fixedboundary").ReadForm(1 << 20)
	require.NoError(t, err)
	require.Equal(t, []string{"value"}, form.Value["after"])
	require.Equal(t, "application/octet-stream", form.File["file"][0].Header.Get("Content-Type"))
}

func TestEncoder_UnknownSizeYieldsNegativeLength(t *testing.T) {
	t.Parallel()

	payload := formdata.NewPayload().SetFile("file", formdata.File{
		Filename:    "dataset.json",
		Reader:      strings.NewReader(datasetJSON),
		ContentType: "application/json",
		Size:        -1,
	})

	encoder, err := formdata.NewEncoder(payload)

	require.NoError(t, err)
	require.Equal(t, int64(-1), encoder.Len())
}

func TestEncoder_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	_, err := formdata.NewEncoder(formdata.NewPayload().Set("", "x"))
	require.ErrorIs(t, err, formdata.ErrEmptyFieldName)

	_, err = formdata.NewEncoder(formdata.NewPayload().SetFile("file", formdata.File{
		Filename:    "dataset.json",
		Reader:      nil,
		ContentType: "application/json",
		Size:        0,
	}))
	require.ErrorIs(t, err, formdata.ErrNilFileReader)
}

func TestEncoder_RejectsInvalidBoundary(t *testing.T) {
	t.Parallel()

	_, err := formdata.NewEncoder(formdata.NewPayload(), formdata.WithBoundary("bad boundary!"))

	require.Error(t, err)
}

func TestMonitor_ReportsCumulativeProgress(t *testing.T) {
	t.Parallel()

	encoder, err := formdata.NewEncoder(newDatasetPayload())
	require.NoError(t, err)

	var updates []formdata.Progress

	monitor := formdata.NewMonitor(encoder, func(p formdata.Progress) {
		updates = append(updates, p)
	})

	require.Equal(t, encoder.ContentType(), monitor.ContentType())
	require.Equal(t, encoder.Len(), monitor.Len())

	buf := make([]byte, 16)

	for {
		_, err := monitor.Read(buf)
		if err == io.EOF {
			break
		}

		require.NoError(t, err)
	}

	require.NotEmpty(t, updates)

	for i := 1; i < len(updates); i++ {
		require.Greater(t, updates[i].BytesRead, updates[i-1].BytesRead)
	}

	last := updates[len(updates)-1]
	require.Equal(t, encoder.Len(), last.BytesRead)
	require.Equal(t, encoder.Len(), last.TotalBytes)
	require.True(t, last.Done())
	require.InDelta(t, 1.0, last.Fraction(), 0.0001)
	require.Equal(t, encoder.Len(), monitor.BytesRead())
}

func TestMonitor_NilCallback(t *testing.T) {
	t.Parallel()

	encoder, err := formdata.NewEncoder(newDatasetPayload())
	require.NoError(t, err)

	body, err := io.ReadAll(formdata.NewMonitor(encoder, nil))

	require.NoError(t, err)
	require.Len(t, body, int(encoder.Len()))
}

func TestProgress_Fraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		progress formdata.Progress
		expected float64
	}{
		{name: "half", progress: formdata.Progress{BytesRead: 50, TotalBytes: 100}, expected: 0.5},
		{name: "unknown total", progress: formdata.Progress{BytesRead: 50, TotalBytes: -1}, expected: 0},
		{name: "overshoot clamps", progress: formdata.Progress{BytesRead: 150, TotalBytes: 100}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, tt.progress.Fraction(), 0.0001)
		})
	}
}
