package main

import (
	"fmt"
	"os"

	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/document"
	"github.com/spf13/cobra"
)

const defaultMaxBytes = 10 * 1024 * 1024

func newParseCmd() *cobra.Command {
	var (
		text     string
		maxBytes int64
	)

	cmd := &cobra.Command{
		Use:   "parse [file.pdf]",
		Short: "Extract contact fields from a PDF resume or from plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" && len(args) == 0 {
				return fmt.Errorf("pass a PDF path or --text")
			}

			source := text
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
				if err := document.Validate(data, maxBytes); err != nil {
					return err
				}
				source, err = document.NewPDFReader().ReadText(data)
				if err != nil {
					return err
				}
			}

			out := resume.Extraction{
				Fields: resume.Extract(resume.Normalize(source)),
				Source: resume.SourceHeuristic,
			}
			return writeJSON(cmd.OutOrStdout(), out.ToResponse())
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Resume text to parse instead of a PDF")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", defaultMaxBytes, "Maximum PDF size in bytes")
	return cmd
}
