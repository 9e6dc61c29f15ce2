package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/cli"
	"github.com/ManderO9/Gns3Configuration/pkg/settings"
)

// settingKeys lists the keys accepted by "settings set", in display order.
var settingKeys = []string{
	"agent", "agent_script", "agent_interpreter", "agent_timeout", "ignore_exit_status",
	"ssh_user", "listen", "server_url", "parallel", "audit_log", "log_level", "log_format",
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persistent settings",
		Long: `Manage persistent settings stored in ~/.gnsconf/settings.json.

Every setting can be overridden by a GNSCONF_<KEY> environment variable,
e.g. GNSCONF_AGENT=console. The SSH password is only read from
GNSCONF_SSH_PASSWORD or prompted for.

Examples:
  gnsconf settings show
  gnsconf settings set agent console
  gnsconf settings set agent_timeout 45s
  gnsconf settings clear`,
		Annotations: map[string]string{skipInit: ""},
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Show current settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

			t := cli.NewTable("SETTING", "VALUE")
			for _, key := range settingKeys {
				value := settingValue(userSettings, key)
				if value == "" {
					value = "(not set)"
				}
				t.Row(key, value)
			}
			t.Flush()
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Set a setting value",
		Long: `Set a persistent setting value.

Available settings:
  agent              - Dispatch agent: script, console or ssh
  agent_script       - External agent program (default: gnsconf agent)
  agent_interpreter  - Interpreter for agent_script, e.g. python3
  agent_timeout      - Per-dispatch timeout, e.g. 30s
  ignore_exit_status - Treat a failing script exit status as success
  ssh_user           - Login for the ssh agent
  listen             - gnsconf serve listen address
  server_url         - gnsconf watch server URL
  parallel           - Consoles configured at once by gnsconf apply
  audit_log          - Audit log path
  log_level          - Log level (debug, info, warn, error)
  log_format         - Log format: text or json`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipInit: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file alone so environment overrides are not persisted.
			s, err := settings.LoadFrom(settings.DefaultSettingsPath())
			if err != nil {
				s = &settings.Settings{}
			}
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := s.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			fmt.Printf("%s set to: %s\n", args[0], args[1])
			return nil
		},
	}

	get := &cobra.Command{
		Use:         "get <setting>",
		Short:       "Get a setting value",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipInit: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range settingKeys {
				if key == args[0] {
					fmt.Println(settingValue(userSettings, key))
					return nil
				}
			}
			return fmt.Errorf("unknown setting %q", args[0])
		},
	}

	clearCmd := &cobra.Command{
		Use:         "clear",
		Short:       "Reset all settings to defaults",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.LoadFrom(settings.DefaultSettingsPath())
			if err != nil {
				s = &settings.Settings{}
			}
			s.Clear()
			if err := s.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			fmt.Println("Settings cleared")
			return nil
		},
	}

	cmd.AddCommand(show, set, get, clearCmd)
	return cmd
}

// settingValue returns the effective value of key, with defaults applied.
func settingValue(s *settings.Settings, key string) string {
	switch key {
	case "agent":
		return s.GetAgent()
	case "agent_script":
		return s.AgentScript
	case "agent_interpreter":
		return s.AgentInterpreter
	case "agent_timeout":
		d, err := s.GetAgentTimeout()
		if err != nil {
			return s.AgentTimeout + " (invalid)"
		}
		return d.String()
	case "ignore_exit_status":
		return strconv.FormatBool(s.IgnoreExitStatus)
	case "ssh_user":
		return s.SSHUser
	case "listen":
		return s.GetListen()
	case "server_url":
		return s.GetServerURL()
	case "parallel":
		return strconv.Itoa(s.GetParallel())
	case "audit_log":
		return s.GetAuditLog()
	case "log_level":
		return s.LogLevel
	case "log_format":
		if s.LogFormat == "" {
			return "text"
		}
		return s.LogFormat
	}
	return ""
}
