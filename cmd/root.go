// Package cmd provides the CLI commands for the studyflow application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studyflow",
	Short: "studyflow - a study planner with a Pomodoro focus timer",
	Long: `studyflow plans your study day around your subjects, tracks how the day
goes and times your focus sessions with a Pomodoro timer.

Run "studyflow" with no arguments to see today's overview.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runHome,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.studyflow/studyflow.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("studyflow\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
}

// runHome runs onboarding on first use and prints today's overview after.
func runHome(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	profile, err := app.profiles.LoadOrDefault(ctx)
	if err != nil {
		return err
	}
	if !profile.OnboardingComplete {
		if !isInteractive() {
			fmt.Fprintln(cmd.OutOrStdout(), `Welcome to studyflow! Run "studyflow profile edit" in a terminal to get started.`)
			return nil
		}
		if err := runOnboarding(cmd, profile); err != nil {
			return err
		}
	}

	return statusCmd.RunE(cmd, args)
}
