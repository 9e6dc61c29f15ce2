package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/audit"
	"github.com/ManderO9/Gns3Configuration/pkg/cli"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View the audit log",
		Long: `View the audit log of submitted intents.

Every intent is logged with:
  - Timestamp
  - Source (cli, http, batch) and user or client address
  - Console target
  - Operation and the commands sent
  - Success/failure status

Examples:
  gnsconf audit list --port 5000
  gnsconf audit list --last 24h --failures
  gnsconf audit list --operation ospf-network --json`,
	}
	cmd.AddCommand(newAuditListCmd())
	return cmd
}

func newAuditListCmd() *cobra.Command {
	var (
		host      string
		port      string
		user      string
		operation string
		last      string
		limit     int
		failures  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := audit.Filter{
				Host:        host,
				Port:        port,
				User:        user,
				Operation:   operation,
				Limit:       limit,
				FailureOnly: failures,
			}

			if last != "" {
				d, err := time.ParseDuration(last)
				if err != nil {
					return fmt.Errorf("invalid duration: %s", last)
				}
				filter.StartTime = time.Now().Add(-d)
			}

			events, err := audit.Query(filter)
			if err != nil {
				return fmt.Errorf("querying audit log: %w", err)
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(events)
			}

			if len(events) == 0 {
				fmt.Println("No audit events found")
				return nil
			}

			t := cli.NewTable("TIMESTAMP", "SOURCE", "WHO", "CONSOLE", "OPERATION", "STATUS")
			for _, e := range events {
				status := green("ok")
				if !e.Success {
					status = red("failed")
				}
				if e.DryRun {
					status = yellow("dry-run")
				}
				who := e.User
				if who == "" {
					who = e.ClientIP
				}
				t.Row(
					e.Timestamp.Format("2006-01-02 15:04:05"),
					string(e.Source),
					who,
					e.Host+":"+e.Port,
					e.Operation,
					status,
				)
			}
			t.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Filter by console host")
	cmd.Flags().StringVar(&port, "port", "", "Filter by console port")
	cmd.Flags().StringVar(&user, "user", "", "Filter by user")
	cmd.Flags().StringVar(&operation, "operation", "", "Filter by operation kind")
	cmd.Flags().StringVar(&last, "last", "", "Show events from last duration (e.g., 24h)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum events to show")
	cmd.Flags().BoolVar(&failures, "failures", false, "Show only failed intents")
	addOutputFlags(cmd)
	return cmd
}
