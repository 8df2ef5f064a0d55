package core

// pipeline.go guards the stage boundaries. A panic inside normalization or
// serialization is turned into ErrProcessing or ErrSerialization so a bad file
// can never take the host process down.

import (
	"fmt"
)

// Result holds every intermediate product of a one-shot run.
type Result struct {
	Parsed     *ParsedTable
	Normalized *NormalizedTable
	Changed    int
	Output     string
}

// Run parses, normalizes and serializes text in one call.
// Row errors are reported in Result.Parsed and do not fail the run.
func Run(text string) (*Result, error) {
	parsed, err := Parse(text)
	if err != nil {
		return nil, err
	}

	normalized, changed, err := normalizeStage(parsed)
	if err != nil {
		return nil, err
	}

	output, err := serializeStage(normalized)
	if err != nil {
		return nil, err
	}

	return &Result{
		Parsed:     parsed,
		Normalized: normalized,
		Changed:    changed,
		Output:     output,
	}, nil
}

func normalizeStage(t *ParsedTable) (out *NormalizedTable, changed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, changed = nil, 0
			err = fmt.Errorf("normalize: %w: %v", ErrProcessing, r)
		}
	}()
	if t == nil {
		return nil, 0, fmt.Errorf("normalize: %w: no parsed table", ErrProcessing)
	}
	out, changed = Normalize(t)
	return out, changed, nil
}

func serializeStage(t *NormalizedTable) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("serialize: %w: %v", ErrSerialization, r)
		}
	}()
	if t == nil {
		return "", fmt.Errorf("serialize: %w: no normalized table", ErrSerialization)
	}
	return Serialize(t), nil
}
