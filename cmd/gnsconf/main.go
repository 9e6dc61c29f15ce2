// gnsconf - configuration intents for GNS3 lab devices
//
// gnsconf turns operator intents (static routes, interface addressing,
// RIP and OSPF networks, VPCS addresses) into IOS command sequences and
// sends them to device consoles through a dispatch agent. Progress and
// errors are published to a notification feed that the web UI and
// "gnsconf watch" poll.
//
// Write commands preview by default; use -x to send commands.
//
// Usage:
//
//	gnsconf route 192.168.1.0 255.255.255.0 10.0.0.2 -H 127.0.0.1 -p 5000 -x
//	gnsconf interface f0/0 10.0.0.1 255.255.255.0 -p 5000 -x
//	gnsconf rip 10.0.0.0 -p 5000 -x
//	gnsconf ospf 1 10.0.0.0 0.0.0.255 0 -p 5000 -x
//	gnsconf pc 192.168.1.2 192.168.1.1 -p 5002 -x
//	gnsconf apply -f lab.yaml -x             Apply a batch of intents
//	gnsconf serve                            Serve the web endpoints
//	gnsconf watch                            Follow the notification feed
//	gnsconf agent <host> <port> [cmd...]     Console agent used by the script dispatcher
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ManderO9/Gns3Configuration/pkg/audit"
	"github.com/ManderO9/Gns3Configuration/pkg/cli"
	"github.com/ManderO9/Gns3Configuration/pkg/settings"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
	"github.com/ManderO9/Gns3Configuration/pkg/version"
)

var (
	// Console target flags
	consoleHost string // -H, --host
	consolePort string // -p, --port

	// Global option flags
	agentName   string
	verbose     bool
	executeMode bool
	jsonOutput  bool

	// Global state
	userSettings *settings.Settings
)

// skipInit marks commands that must not open the audit log.
const skipInit = "skip-init"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "gnsconf",
	Short:             "Configuration intents for GNS3 lab devices",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `gnsconf turns configuration intents into IOS command sequences and sends
them to device consoles.

Write commands preview the commands by default. Use -x to send them.

  gnsconf <intent> [args] -H <console-host> -p <console-port> [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Quiet by default, verbose on -v; serve logs requests at info.
		level := "warn"
		if cmd.Name() == "serve" {
			level = "info"
		}
		if userSettings.LogLevel != "" {
			level = userSettings.LogLevel
		}
		if verbose {
			level = "debug"
		}
		if err := util.ConfigureLogging(level, userSettings.LogFormat); err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}

		cli.SetColor(os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd())))

		if agentName == "" {
			agentName = userSettings.GetAgent()
		}

		if _, ok := cmd.Annotations[skipInit]; ok {
			return nil
		}

		auditLogger, err := audit.NewFileLogger(userSettings.GetAuditLog(), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if l := audit.DefaultLogger(); l != nil {
			audit.SetDefaultLogger(nil)
			return l.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&consoleHost, "host", "H", "127.0.0.1", "Console host (GNS3 server address)")
	rootCmd.PersistentFlags().StringVarP(&consolePort, "port", "p", "", "Console port of the device")
	rootCmd.PersistentFlags().StringVar(&agentName, "agent", "", "Dispatch agent: script, console or ssh (default from settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "intent", Title: "Intents:"},
		&cobra.Group{ID: "service", Title: "Services:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range newIntentCmds() {
		cmd.GroupID = "intent"
		addWriteFlags(cmd)
		addOutputFlags(cmd)
		rootCmd.AddCommand(cmd)
	}

	applyCmd := newApplyCmd()
	addWriteFlags(applyCmd)
	addOutputFlags(applyCmd)
	applyCmd.GroupID = "intent"
	rootCmd.AddCommand(applyCmd)

	for _, cmd := range []*cobra.Command{newServeCmd(), newWatchCmd(), newAgentCmd()} {
		cmd.GroupID = "service"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{newAuditCmd(), newSettingsCmd(), newVersionCmd()} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

// addWriteFlags registers -x on commands that reach devices.
func addWriteFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&executeMode, "execute", "x", false, "Send commands to the device (default is dry-run)")
}

// addOutputFlags registers --json on commands with structured output.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipInit: ""},
		Run: func(cmd *cobra.Command, args []string) {
			if version.Version == "dev" {
				fmt.Println("gnsconf dev build (use 'make build' for version info)")
			} else {
				fmt.Printf("gnsconf %s\n", version.Info())
			}
		},
	}
}

// printDryRunNotice reminds the operator nothing was sent.
func printDryRunNotice() {
	fmt.Println("\n" + yellow("DRY-RUN: No commands sent. Use -x to execute."))
}

// Color helpers delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
