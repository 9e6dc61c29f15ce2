package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/audit"
	"github.com/ManderO9/Gns3Configuration/pkg/cli"
	"github.com/ManderO9/Gns3Configuration/pkg/intents"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/orchestrator"
)

// resultView is the --json form of one applied intent.
type resultView struct {
	Name      string   `json:"name"`
	Operation string   `json:"operation"`
	Console   string   `json:"console"`
	Status    string   `json:"status"`
	Commands  []string `json:"commands,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func newApplyCmd() *cobra.Command {
	var (
		file     string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "apply -f <file>",
		Short: "Apply a batch of intents from a YAML file",
		Long: `Apply a batch of intents from a YAML file.

The whole file is validated before anything is sent. Intents for the same
console run in file order; after a failure the rest of that console's
intents are skipped. Different consoles are configured in parallel.

  name: two-router lab
  defaults:
    host: 127.0.0.1
  intents:
    - name: r1-uplink
      kind: interface
      port: "5000"
      interface: FastEthernet0/0
      ip: 10.0.0.1
      mask: 255.255.255.0
    - kind: rip-network
      port: "5000"
      network: 10.0.0.0`,
		Example: `  gnsconf apply -f lab.yaml
  gnsconf apply -f lab.yaml -x --parallel 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := intents.ParseFile(file)
			if err != nil {
				return err
			}
			if err := batch.Validate(); err != nil {
				return err
			}

			mailbox := notify.NewMailbox()
			orch, err := newOrchestrator(mailbox)
			if err != nil {
				return err
			}
			caller := cliCaller()
			caller.Source = audit.SourceBatch
			ctx := orchestrator.WithCaller(cmd.Context(), caller)

			if !executeMode {
				t := cli.NewTable("INTENT", "KIND", "CONSOLE", "COMMANDS").WithPrefix("  ")
				views := make([]resultView, 0, len(batch.Intents))
				for _, in := range batch.Intents {
					cmds, err := orch.Preview(ctx, in.Operation)
					if err != nil {
						return fmt.Errorf("%s: %w", in.Label(), err)
					}
					console := in.Operation.Console().String()
					views = append(views, resultView{
						Name: in.Label(), Operation: in.Kind, Console: console,
						Status: "planned", Commands: cmds,
					})
					t.Row(in.Label(), in.Kind, console, strings.Join(cmds, " | "))
				}
				if jsonOutput {
					return json.NewEncoder(os.Stdout).Encode(views)
				}
				if batch.Name != "" {
					fmt.Printf("Batch: %s\n\n", batch.Name)
				}
				t.Flush()
				printDryRunNotice()
				return nil
			}

			if parallel <= 0 {
				parallel = userSettings.GetParallel()
			}
			runner := &intents.Runner{Exec: orch, Publisher: mailbox, Parallel: parallel}
			results := runner.Run(ctx, batch)
			applied, failed, skipped := intents.Summary(results)

			if jsonOutput {
				views := make([]resultView, 0, len(results))
				for _, res := range results {
					views = append(views, resultView{
						Name:      res.Intent.Label(),
						Operation: res.Intent.Kind,
						Console:   res.Intent.Operation.Console().String(),
						Status:    string(res.Status),
						Commands:  res.Outcome.Commands,
						Error:     res.Outcome.Reason,
					})
				}
				if err := json.NewEncoder(os.Stdout).Encode(views); err != nil {
					return err
				}
			} else {
				if verbose {
					_, notes := mailbox.DrainAll()
					for _, n := range notes {
						fmt.Println(cli.Notification(n))
					}
					fmt.Println()
				}
				width := 0
				for _, res := range results {
					width = max(width, len(res.Intent.Label())+len(res.Intent.Operation.Console().String())+4)
				}
				for _, res := range results {
					label := res.Intent.Label() + " (" + res.Intent.Operation.Console().String() + ")"
					status := cli.Status(res.Status == intents.StatusApplied, res.Status == intents.StatusSkipped)
					fmt.Printf("  %s %s\n", cli.DotPad(label, width+4), status)
					if res.Outcome.Reason != "" {
						fmt.Printf("      %s\n", res.Outcome.Reason)
					}
				}
				fmt.Printf("\n%d applied, %d failed, %d skipped\n", applied, failed, skipped)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d intents failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Intent file (YAML)")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Consoles configured at once (default from settings)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
