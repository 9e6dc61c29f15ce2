package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/server"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the intent and notification endpoints",
		Long: `Serve the HTTP endpoints used by the web front end.

  /Home/StaticRoute, /Home/ConfigureInterface, /Home/AddRipNetwork,
  /Home/AddOSPFNetwork, /Home/ConfigurePcInterface   submit an intent (form or query)
  GET /GetNewNotifications                           drain the notification feed
  GET /ws/notifications                              drain over a WebSocket ("poll")
  GET /healthz                                       liveness

Runs until interrupted; in-flight intents finish before exit.`,
		Example: `  gnsconf serve
  gnsconf serve --listen 0.0.0.0:8080 --agent console`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = userSettings.GetListen()
			}

			mailbox := notify.NewMailbox()
			orch, err := newOrchestrator(mailbox)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			util.WithFields(map[string]interface{}{
				"listen": listen,
				"agent":  orch.Agent().Name(),
			}).Info("Starting gnsconf server")

			if err := server.New(orch, mailbox).Run(ctx, listen); err != nil {
				return fmt.Errorf("serving on %s: %w", listen, err)
			}
			util.Logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from settings)")
	return cmd
}
