package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/echotutor/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded session state transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryTransitions(cmd.Context(), sessionID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query transitions: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No transitions recorded.")
			return nil
		}

		fmt.Printf("%-19s  %-8s  %-30s  %-30s  %s\n", "Timestamp", "Session", "From", "To", "Trigger")
		fmt.Println(strings.Repeat("─", 110))
		for _, e := range events {
			fmt.Printf("%-19s  %-8s  %-30s  %-30s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.SessionID, 8),
				position(e.FromScreen, e.FromMode),
				position(e.ToScreen, e.ToMode),
				color.CyanString(e.Trigger),
			)
		}
		return nil
	},
}

func position(screen, mode string) string {
	if mode == "" {
		return screen
	}
	return screen + "/" + mode
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 50, "Number of transitions to show")
	historyCmd.Flags().StringP("session", "s", "", "Only show transitions of this session")
}
