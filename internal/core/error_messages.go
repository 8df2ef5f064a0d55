package core

// error_messages.go defines the error kinds of the pipeline and maps them to
// user-friendly messages with codes for support reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Invalid file type: name lacks .csv or content is not text
//	FILE002 - File too large: upload exceeds UPLOAD_MAX_FILE_SIZE
//	FILE003 - Empty file: no non-blank lines
//	FILE004 - No file: the form carried no file
//	FILE005 - Read error: the upload could not be read
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Column mismatch: a data line has the wrong number of columns.
//	         Never halts a run; reported alongside the valid rows.
//
// # Processing Errors (PROC001-PROC099)
//
//	PROC001 - Processing failed: unexpected fault while normalizing
//	PROC002 - Serialization failed: unexpected fault while building the output
//	PROC003 - System busy: too many files being processed
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: expired or never existed
//	SES002 - Not processed: download requested before processing
//
// # Default Error (ERR000)
//
// Sentinels are matched with errors.Is first. Errors that do not wrap a
// sentinel fall back to case-insensitive substring patterns, the first match
// wins.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrEmptyInput        = errors.New("empty input")
	ErrRowColumnMismatch = errors.New("row column mismatch")
	ErrSerialization     = errors.New("serialization failure")
	ErrProcessing        = errors.New("processing failure")
	ErrFileTooLarge      = errors.New("file too large")
	ErrNoFile            = errors.New("no file provided")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotProcessed      = errors.New("session not processed")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is checked in order with errors.Is.
var sentinelMessages = []sentinelMessage{
	{ErrInvalidFileType, UserMessage{
		Message: "Please select a valid CSV file",
		Action:  "Choose a semicolon-delimited text file ending in .csv",
		Code:    "FILE001",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Split the file into smaller files",
		Code:    "FILE002",
	}},
	{ErrEmptyInput, UserMessage{
		Message: "The file is empty",
		Action:  "Upload a file with a header line and data rows",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to upload",
		Code:    "FILE004",
	}},
	{ErrRowColumnMismatch, UserMessage{
		Message: "A row has the wrong number of columns",
		Action:  "Check the line for extra or missing semicolons",
		Code:    "ROW001",
	}},
	{ErrProcessing, UserMessage{
		Message: "The file could not be processed",
		Action:  "Please select the file again",
		Code:    "PROC001",
	}},
	{ErrSerialization, UserMessage{
		Message: "The output file could not be built",
		Action:  "Please select the file again",
		Code:    "PROC002",
	}},
	{ErrTooManyRuns, UserMessage{
		Message: "Too many files are being processed",
		Action:  "Please wait a moment and try again",
		Code:    "PROC003",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "Your file session has expired",
		Action:  "Please select the file again",
		Code:    "SES001",
	}},
	{ErrNotProcessed, UserMessage{
		Message: "The file has not been processed yet",
		Action:  "Process the file before downloading it",
		Code:    "SES002",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors from outside this package by their text.
var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg:     sentinelMessages[1].msg,
	},
	{
		pattern: "multipart",
		msg: UserMessage{
			Message: "The upload could not be read",
			Action:  "Please select the file again",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unexpected eof",
		msg: UserMessage{
			Message: "The upload could not be read",
			Action:  "Please select the file again",
			Code:    "FILE005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
// Support staff should check application logs for the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
//
// Example:
//
//	err := fmt.Errorf("parse: %w", ErrEmptyInput)
//	msg := MapError(err)
//	// msg.Code == "FILE003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
