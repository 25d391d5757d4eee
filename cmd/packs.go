package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/content"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Check the lesson and feedback packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := content.ConfigFromEnv()
		if root, _ := cmd.Flags().GetString("content"); root != "" {
			cfg.Root = root
		}
		ds := content.NewDirStore(cfg, zap.NewNop())

		lib, err := content.Scan(cmd.Context(), ds, zap.NewNop())
		if err != nil {
			return fmt.Errorf("scan %s: %w", cfg.Root, err)
		}

		fmt.Printf("Content: %s\n\n", cfg.Root)
		printPack("Lessons:", lib.Lessons.Len(), lib.LessonErr)
		printPack("Feedback:", lib.Feedback.Len(), lib.FeedbackErr)

		excluded := ds.Excluded()
		if len(excluded) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println("Excluded items")
		fmt.Println(strings.Repeat("─", 60))
		for _, e := range excluded {
			fmt.Printf("%-9s  %4d  %s\n", e.Pack, e.Number, color.YellowString("%v", e.Err))
		}
		return nil
	},
}

func printPack(label string, n int, err error) {
	if err != nil {
		fmt.Printf("%-10s %s\n", label, color.RedString("unavailable (%v)", err))
		return
	}
	fmt.Printf("%-10s %s\n", label, color.GreenString("%d items", n))
}

func init() {
	packsCmd.Flags().String("content", "", "Directory holding the lessons/ and feedback/ packs")
}
