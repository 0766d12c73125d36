package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change settings stored in ~/.studyflow/config.toml.

Every key can also be overridden with a STUDYFLOW_* environment variable,
e.g. STUDYFLOW_GENERATOR_MODEL.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), app.config)
		}
		printConfig(cmd.OutOrStdout(), app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long:  `Change a setting. Run "studyflow config show" to list keys.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Set(path, args[0], args[1])
		if err != nil {
			return err
		}
		app.config = cfg
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
}

func printConfig(w io.Writer, cfg *config.Config) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Timer")
	fmt.Fprintf(w, "    timer.auto_focus          %s\n", onOff(cfg.Timer.AutoFocus))
	fmt.Fprintf(w, "    timer.start_mode          %s\n", cfg.Timer.StartMode)
	fmt.Fprintln(w, "  Notifications")
	fmt.Fprintf(w, "    notifications.enabled     %s\n", onOff(cfg.Notifications.Enabled))
	fmt.Fprintf(w, "    notifications.sound       %s\n", onOff(cfg.Notifications.Sound))
	fmt.Fprintln(w, "  Generator")
	fmt.Fprintf(w, "    generator.enabled         %s\n", onOff(cfg.Generator.Enabled))
	fmt.Fprintf(w, "    generator.endpoint        %s\n", cfg.Generator.Endpoint)
	fmt.Fprintf(w, "    generator.model           %s\n", cfg.Generator.Model)
	fmt.Fprintf(w, "    generator.timeout         %s\n", cfg.Generator.Timeout)
	fmt.Fprintln(w, "  Other")
	fmt.Fprintf(w, "    mcp.enabled               %s\n", onOff(cfg.MCP.Enabled))
	fmt.Fprintf(w, "    git.enabled               %s\n", onOff(cfg.Git.Enabled))
	fmt.Fprintf(w, "    storage.data_dir          %s\n", cfg.Storage.DataDir)
	fmt.Fprintf(w, "    log.level                 %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "    log.file                  %s\n", config.GetLogPath(cfg))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %d keys settable with \"studyflow config set\" (theme.* included)\n\n", len(config.Keys()))
}
