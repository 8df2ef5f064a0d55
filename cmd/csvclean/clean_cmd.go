package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	var (
		encoding       string
		outputEncoding string
		output         string
		compose        bool
	)

	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Normalize accents and write FILE_procesado.csv next to the input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := core.ParseEncoding(encoding)
			if err != nil {
				return fmt.Errorf("invalid --encoding: %w", err)
			}
			out, err := core.ParseEncoding(outputEncoding)
			if err != nil || out == core.EncodingAuto {
				return fmt.Errorf("invalid --output-encoding %q", outputEncoding)
			}

			text, _, err := readInput(args[0], in, compose)
			if err != nil {
				return err
			}
			res, err := core.Run(text)
			if err != nil {
				return userError(err)
			}
			content, _, err := core.Encode(res.Output, out)
			if err != nil {
				return userError(fmt.Errorf("%w: %v", core.ErrSerialization, err))
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}
			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), core.OutputFileName(filepath.Base(args[0])))
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d rows written, %d rows rejected, %d values normalized\n",
				output, len(res.Normalized.Records), len(res.Parsed.RowErrors), res.Changed)
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "auto", "Input encoding: auto, utf-8, windows-1252, iso-8859-1")
	cmd.Flags().StringVar(&outputEncoding, "output-encoding", "utf-8", "Output encoding: utf-8, windows-1252, iso-8859-1")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, or - for stdout (default: FILE_procesado.csv)")
	cmd.Flags().BoolVar(&compose, "compose", true, "Compose decomposed accents (NFC) in UTF-8 input")
	return cmd
}
