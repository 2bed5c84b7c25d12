package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelens/quotedb/internal/cache"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "load failure keeps its own code",
			err:  WrapExitError(ExitFailure, "failed to load dataset", cache.NewTransientIOError("fetch records", errors.New("dial tcp: refused"))),
			want: "TRANSIENT_IO",
		},
		{
			name: "empty dataset keeps its own code",
			err:  WrapExitError(ExitFailure, "failed to load dataset", cache.NewDataUnavailableError("dataset is empty", nil)),
			want: "DATA_UNAVAILABLE",
		},
		{
			name: "command error",
			err:  NewExitError(ExitCommandError, "invalid criteria"),
			want: "COMMAND_ERROR",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}

func TestReportErrorJSONEnvelope(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut}

	reportError(f, WrapExitError(ExitFailure, "failed to load dataset",
		cache.NewTransientIOError("fetch records", errors.New("dial tcp: refused"))))

	// The envelope lands on the error stream; stdout stays clean.
	assert.Empty(t, out.String())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TRANSIENT_IO", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "failed to load dataset")
	assert.Contains(t, resp.Error.Details, "fetch records")
}

func TestReportErrorText(t *testing.T) {
	var errOut bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: &errOut}

	reportError(f, NewExitError(ExitCommandError, "invalid criteria"))

	assert.Contains(t, errOut.String(), "Error [COMMAND_ERROR]: invalid criteria")
}

func TestFormatterErrorFallsBackToWriter(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out}

	require.NoError(t, f.Error("FAILURE", "boom", nil))
	assert.Contains(t, out.String(), "Error [FAILURE]: boom")
}
