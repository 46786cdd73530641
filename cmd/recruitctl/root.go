package main

import (
	"encoding/json"
	"io"

	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "recruitctl",
		Short:         "Offline tools for resume parsing, team hierarchies and access rules",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.SetOutput(cmd.ErrOrStderr())
			logx.SetLevel(logx.ParseLevel(logLevel))
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newCanCmd())
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
