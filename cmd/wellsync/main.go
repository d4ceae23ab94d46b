package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "wellsync",
	Short: "Daily companion for your wellness plan",
	Long:  "wellsync shows today's fitness, nutrition, sleep and mental wellness plan as one timeline, tracks what you have done and reminds you what is next.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	},
	SilenceUsage: true,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Open the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print today's timeline",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

var showCmd = &cobra.Command{
	Use:       "show <fitness|nutrition|sleep|mental>",
	Short:     "Print one domain of the plan as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"fitness", "nutrition", "sleep", "mental"},
	RunE:      runShow,
}

var doneCmd = &cobra.Command{
	Use:   "done <number|id>",
	Short: "Toggle a timeline entry as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new plan for today",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var simulateCmd = &cobra.Command{
	Use:       "simulate <optimal|sleep_deprived|busy|low_energy>",
	Short:     "Generate a plan for a demo scenario",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"optimal", "sleep_deprived", "busy", "low_energy"},
	RunE:      runSimulate,
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the wellness coach a question",
	RunE:  runChat,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed days and your streak",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage the reminder daemon",
}

var remindStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Send a notification before each timeline entry",
	Args:  cobra.NoArgs,
	RunE:  runRemindStart,
}

var remindStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reminder daemon",
	Args:  cobra.NoArgs,
	RunE:  runRemindStop,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetUserCmd = &cobra.Command{
	Use:   "set-user <id>",
	Short: "Save the user ID to the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetUser,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")

	scheduleCmd.Flags().String("ics", "", "Also write the timeline to this iCalendar file")
	generateCmd.Flags().Bool("ai", false, "Generate with the OpenAI model instead of the plan service")
	generateCmd.Flags().String("calendar", "", "Calendar file or URL whose busy times the plan should avoid")
	todayCmd.Flags().String("calendar", "", "Calendar file or URL used when generating from the dashboard")
	todayCmd.Flags().Bool("ai", false, "Generate with the OpenAI model instead of the plan service")
	historyCmd.Flags().String("since", "7 days ago", "How far back to look, e.g. \"last monday\"")

	remindCmd.AddCommand(remindStartCmd)
	remindCmd.AddCommand(remindStopCmd)
	configCmd.AddCommand(configSetUserCmd)
	configCmd.AddCommand(configEditCmd)

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
