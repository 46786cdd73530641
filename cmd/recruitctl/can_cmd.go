package main

import (
	"fmt"

	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/spf13/cobra"
)

func newCanCmd() *cobra.Command {
	var route string

	cmd := &cobra.Command{
		Use:   "can <role> [action subject]",
		Short: "Check a permission or a route against the role table",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := access.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("unknown role %q (use admin, manager or recruiter)", args[0])
			}

			out := cmd.OutOrStdout()
			switch {
			case route != "":
				fmt.Fprintf(out, "%s %s: %t\n", role, route, access.CanAccessRoute(role, route))
			case len(args) == 3:
				fmt.Fprintf(out, "%s %s %s: %t\n", role, args[1], args[2], access.Can(role, args[1], args[2]))
			default:
				return writeJSON(out, access.RulesFor(role))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&route, "route", "", "Check access to a UI route instead of a permission")
	return cmd
}
