package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/cli"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/operations"
	"github.com/ManderO9/Gns3Configuration/pkg/orchestrator"
)

func newIntentCmds() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "route <network> <mask> <next-hop>",
			Short: "Add a static route",
			Example: `  gnsconf route 192.168.2.0 255.255.255.0 10.0.0.2 -p 5000
  gnsconf route 192.168.2.0 255.255.255.0 10.0.0.2 -p 5000 -x`,
			Args: cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIntent(cmd.Context(), &operations.StaticRoute{
					Target:  consoleTarget(),
					Network: args[0],
					Mask:    args[1],
					NextHop: args[2],
				})
			},
		},
		{
			Use:     "interface <name> <ip> <mask>",
			Aliases: []string{"intf"},
			Short:   "Address an interface and bring it up",
			Example: `  gnsconf interface FastEthernet0/0 10.0.0.1 255.255.255.0 -p 5000 -x`,
			Args:    cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIntent(cmd.Context(), &operations.InterfaceConfig{
					Target:    consoleTarget(),
					Interface: args[0],
					IP:        args[1],
					Mask:      args[2],
				})
			},
		},
		{
			Use:     "rip <network>",
			Short:   "Advertise a network through RIP",
			Example: `  gnsconf rip 10.0.0.0 -p 5000 -x`,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIntent(cmd.Context(), &operations.RipNetwork{
					Target:  consoleTarget(),
					Network: args[0],
				})
			},
		},
		{
			Use:     "ospf <process-id> <network> <wildcard-mask> <area>",
			Short:   "Advertise a network into an OSPF area",
			Example: `  gnsconf ospf 1 10.0.0.0 0.0.0.255 0 -p 5000 -x`,
			Args:    cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIntent(cmd.Context(), &operations.OspfNetwork{
					Target:       consoleTarget(),
					ProcessID:    args[0],
					Network:      args[1],
					WildcardMask: args[2],
					Area:         args[3],
				})
			},
		},
		{
			Use:   "pc <ip/prefix> <gateway>",
			Short: "Set a VPCS address and gateway",
			Long: `Set a VPCS address and gateway.

The address is passed to the VPCS "ip" command as given, so it may carry
a prefix length or a mask (192.168.1.2/24, 192.168.1.2 255.255.255.0).`,
			Example: `  gnsconf pc 192.168.1.2 192.168.1.1 -p 5002 -x`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIntent(cmd.Context(), &operations.PcInterface{
					Target:  consoleTarget(),
					IP:      args[0],
					Gateway: args[1],
				})
			},
		},
	}
}

func consoleTarget() operations.Target {
	return operations.Target{Host: consoleHost, Port: consolePort}
}

// intentView is the --json form of one intent run.
type intentView struct {
	Operation     string                `json:"operation"`
	Console       string                `json:"console"`
	Commands      []string              `json:"commands"`
	DryRun        bool                  `json:"dry_run"`
	Success       bool                  `json:"success"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// runIntent previews op, or executes it with -x and prints the
// notifications it produced.
func runIntent(ctx context.Context, op operations.Operation) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mailbox := notify.NewMailbox()
	orch, err := newOrchestrator(mailbox)
	if err != nil {
		return err
	}
	ctx = orchestrator.WithCaller(ctx, cliCaller())

	view := intentView{Operation: op.Name(), Console: op.Console().String()}

	if !executeMode {
		cmds, err := orch.Preview(ctx, op)
		if err != nil {
			return err
		}
		view.Commands, view.DryRun, view.Success = cmds, true, true
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(view)
		}
		fmt.Printf("%s on %s\n", op.Description(), view.Console)
		for _, c := range cmds {
			fmt.Println("  " + c)
		}
		printDryRunNotice()
		return nil
	}

	out := orch.Execute(ctx, op)
	_, batch := mailbox.DrainAll()
	view.Commands, view.Success, view.Error, view.Notifications = out.Commands, out.Success, out.Reason, batch

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(view); err != nil {
			return err
		}
	} else {
		for _, n := range batch {
			fmt.Println(cli.Notification(n))
		}
	}

	if !out.Success {
		return fmt.Errorf("%s on %s failed", op.Name(), view.Console)
	}
	if !jsonOutput {
		fmt.Printf("%s %s on %s (%s)\n", green("OK"), op.Description(), view.Console, out.Duration.Round(time.Millisecond))
	}
	return nil
}
