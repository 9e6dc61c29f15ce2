package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/agent"
	"github.com/ManderO9/Gns3Configuration/pkg/commands"
)

func newAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent <host> <port> [command...]",
		Short: "Send commands to a device console (used by the script agent)",
		Long: `Send commands to a device console over telnet.

Each remaining argument is one command line. This is the default external
agent: the script dispatcher runs "gnsconf agent <host> <port> cmd1 ... cmdN"
when no agent_script is configured. A non-zero exit reports failure.`,
		Example:     `  gnsconf agent 127.0.0.1 5000 en "conf t" "ip route 10.1.0.0 255.255.0.0 10.0.0.2" end`,
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{skipInit: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := userSettings.GetAgentTimeout()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			console := &agent.Console{}
			return console.Run(ctx, args[0], args[1], commands.Sequence(args[2:]))
		},
	}
}
