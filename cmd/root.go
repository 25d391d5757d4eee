package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/echotutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "echotutor",
	Short: "Voice-first homework tutor for blind and low-vision students",
	Long: "EchoTutor walks a student through homework questions and teacher feedback by voice, " +
		"answers questions about them, and describes photos of the world around them.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ECHOTUTOR_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "File of ECHOTUTOR_* settings loaded before the environment is read")

	rootCmd.Flags().String("content", "", "Directory holding the lessons/ and feedback/ packs (overrides ECHOTUTOR_CONTENT)")
	rootCmd.Flags().String("camera", "", "Directory of images the console camera replays (overrides ECHOTUTOR_CAMERA)")
	rootCmd.Flags().String("answers", "", "Directory recorded answers are written to")
	rootCmd.Flags().String("log-file", "", "Log file path (overrides ECHOTUTOR_LOG)")
	rootCmd.Flags().Bool("debug", false, "Log at debug level")
	rootCmd.Flags().Bool("stream", false, "Speak answers sentence by sentence while they stream in")

	rootCmd.AddCommand(packsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ECHOTUTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadEnvFile reads settings such as API keys from the env file. Variables
// already set in the environment win; a missing default file is fine.
func loadEnvFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return err
}
