package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped invalid file type",
			err:         fmt.Errorf("%w: %q", ErrInvalidFileType, "a.xlsx"),
			wantCode:    "FILE001",
			wantMessage: "Please select a valid CSV file",
		},
		{
			name:        "file too large sentinel",
			err:         fmt.Errorf("%w: more than 10 bytes", ErrFileTooLarge),
			wantCode:    "FILE002",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "http body limit maps to too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE002",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "empty input",
			err:         fmt.Errorf("parse: %w", ErrEmptyInput),
			wantCode:    "FILE003",
			wantMessage: "The file is empty",
		},
		{
			name:        "row error",
			err:         &RowError{Line: 3, Expected: 2, Actual: 3},
			wantCode:    "ROW001",
			wantMessage: "A row has the wrong number of columns",
		},
		{
			name:        "truncated multipart body",
			err:         errors.New("multipart: NextPart: unexpected EOF"),
			wantCode:    "FILE005",
			wantMessage: "The upload could not be read",
		},
		{
			name:        "run limiter timeout",
			err:         fmt.Errorf("%w: waited 30s", ErrTooManyRuns),
			wantCode:    "PROC003",
			wantMessage: "Too many files are being processed",
		},
		{
			name:        "session expired",
			err:         ErrSessionNotFound,
			wantCode:    "SES001",
			wantMessage: "Your file session has expired",
		},
		{
			name:        "rate limit text",
			err:         errors.New("Rate Limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         context.Canceled,
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_EveryCodeIsUnique(t *testing.T) {
	seen := make(map[string]error)
	for _, sm := range sentinelMessages {
		if prev, ok := seen[sm.msg.Code]; ok {
			t.Errorf("code %s used by both %v and %v", sm.msg.Code, prev, sm.err)
		}
		seen[sm.msg.Code] = sm.err
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(fmt.Errorf("load: %w", ErrNotProcessed))

	expected := "The file has not been processed yet (Code: SES002). Process the file before downloading it"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}
