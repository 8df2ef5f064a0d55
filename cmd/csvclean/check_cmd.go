package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/spf13/cobra"
)

type checkOutput struct {
	File        string            `json:"file"`
	Encoding    core.Encoding     `json:"encoding"`
	Summary     core.Summary      `json:"summary"`
	ColumnStats []core.ColumnStat `json:"column_stats"`
	RowErrors   []*core.RowError  `json:"row_errors"`
}

func newCheckCmd() *cobra.Command {
	var (
		encoding string
		compose  bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Report column count errors and column fill statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := core.ParseEncoding(encoding)
			if err != nil {
				return fmt.Errorf("invalid --encoding: %w", err)
			}

			text, used, err := readInput(args[0], in, compose)
			if err != nil {
				return err
			}
			table, err := core.Parse(text)
			if err != nil {
				return userError(err)
			}

			rowErrors := table.RowErrors
			if rowErrors == nil {
				rowErrors = []*core.RowError{}
			}
			if err := writeJSON(cmd.OutOrStdout(), checkOutput{
				File:        filepath.Base(args[0]),
				Encoding:    used,
				Summary:     core.Summarize(table),
				ColumnStats: core.ColumnStats(table),
				RowErrors:   rowErrors,
			}); err != nil {
				return err
			}

			if strict && len(table.RowErrors) > 0 {
				return fmt.Errorf("%d rows have the wrong number of columns", len(table.RowErrors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "auto", "Input encoding: auto, utf-8, windows-1252, iso-8859-1")
	cmd.Flags().BoolVar(&compose, "compose", true, "Compose decomposed accents (NFC) in UTF-8 input")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any row is rejected")
	return cmd
}

// readInput loads a file the same way the web upload does: name and content
// checks, then decoding.
func readInput(path string, enc core.Encoding, compose bool) (string, core.Encoding, error) {
	if err := core.CheckFileName(filepath.Base(path)); err != nil {
		return "", "", userError(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := core.CheckContent(raw); err != nil {
		return "", "", userError(err)
	}
	return core.Decode(raw, enc, compose)
}

// userError puts the user message and support code in front of err.
func userError(err error) error {
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}
