package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teaminfra"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teamsrv"
	"github.com/spf13/cobra"
)

// localTenant agrupa los miembros leídos del archivo
const localTenant = kernel.TenantID("local")

func newTreeCmd() *cobra.Command {
	var (
		asJSON bool
		xlsx   string
	)

	cmd := &cobra.Command{
		Use:   "tree <members.json>",
		Short: "Print the reporting hierarchy of a JSON member list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var members []team.Member
			if err := json.Unmarshal(raw, &members); err != nil {
				return fmt.Errorf("decode members: %w", err)
			}
			for i := range members {
				members[i].TenantID = localTenant
				if members[i].Status == "" {
					members[i].Status = team.MemberStatusActive
				}
			}

			svc := teamsrv.NewTeamService(teaminfra.NewInMemoryMemberRepository(members...))
			ctx := cmd.Context()

			hierarchy, err := svc.Hierarchy(ctx, localTenant)
			if err != nil {
				return err
			}

			if xlsx != "" {
				f, err := os.Create(xlsx)
				if err != nil {
					return fmt.Errorf("create %s: %w", xlsx, err)
				}
				defer f.Close()
				if err := svc.ExportHierarchy(ctx, localTenant, f); err != nil {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), hierarchy)
			}

			out := cmd.OutOrStdout()
			for _, e := range hierarchy.Entries {
				fmt.Fprintf(out, "%s%s (%s)", strings.Repeat("  ", e.Depth), e.Node.Name, e.Node.Role)
				if e.DirectReports > 0 {
					fmt.Fprintf(out, " [%d]", e.DirectReports)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the traversal as JSON")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Also write the hierarchy export to this .xlsx file")
	return cmd
}
