package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-labs/cohort/domain"
)

func TestFileOutputWriter_WritesToWriter(t *testing.T) {
	var status bytes.Buffer
	var out bytes.Buffer
	w := NewFileOutputWriter(&status)

	err := w.Write(&out, "", domain.OutputFormatText, func(wr io.Writer) error {
		_, err := wr.Write([]byte("hello"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.String())
	assert.Empty(t, status.String(), "no status message for writer output")
}

func TestFileOutputWriter_WritesToFile(t *testing.T) {
	var status bytes.Buffer
	w := NewFileOutputWriter(&status)
	path := filepath.Join(t.TempDir(), "report.json")

	err := w.Write(nil, path, domain.OutputFormatJSON, func(wr io.Writer) error {
		_, err := wr.Write([]byte(`{"ok":true}`))
		return err
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(content))
	assert.Contains(t, status.String(), "JSON report generated:")
	assert.Contains(t, status.String(), "report.json")
}

func TestFileOutputWriter_CreateFails(t *testing.T) {
	w := NewFileOutputWriter(io.Discard)
	path := filepath.Join(t.TempDir(), "missing-dir", "report.txt")

	err := w.Write(nil, path, domain.OutputFormatText, func(io.Writer) error { return nil })
	require.Error(t, err)

	var de domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeOutputError, de.Code)
}

func TestFileOutputWriter_WriteFuncError(t *testing.T) {
	w := NewFileOutputWriter(io.Discard)
	var out bytes.Buffer

	err := w.Write(&out, "", domain.OutputFormatText, func(io.Writer) error {
		return errors.New("boom")
	})
	assert.Error(t, err)
}
