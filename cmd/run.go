package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/app"
	"github.com/abhisek/echotutor/internal/console"
	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/logging"
	"github.com/abhisek/echotutor/internal/session"
	"github.com/abhisek/echotutor/internal/speech"
	"github.com/abhisek/echotutor/internal/store"
)

// runApp opens the store, builds the session and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" {
		logPath = logging.DefaultPath()
	}
	debug, _ := cmd.Flags().GetBool("debug")
	log, err := logging.New(logging.Config{Path: logPath, Debug: debug})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	llmCfg := llm.ConfigFromEnv()
	if llmCfg.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.ReadyTimeout = llmCfg.ReadyTimeout
			llmCfg = discovered
		} else {
			fmt.Fprintln(os.Stderr, "LLM provider not configured; questions and photos will be unavailable.")
		}
	}
	provider := llm.Initialize(ctx, llmCfg, eventRepo, logging.Component(log, "llm"))

	contentCfg := content.ConfigFromEnv()
	if root, _ := cmd.Flags().GetString("content"); root != "" {
		contentCfg.Root = root
	}
	library := content.NewDirStore(contentCfg, logging.Component(log, "content"))

	cfg := session.ConfigFromEnv()
	if stream, _ := cmd.Flags().GetBool("stream"); stream {
		cfg.Generation.Stream = true
	}

	synth := console.NewSynthesizer(cfg.WordPacing, log)
	queue := speech.NewQueue(synth, logging.Component(log, "speech"))
	defer queue.Close()
	recognizer := console.NewRecognizer()
	defer recognizer.Close()

	deps := session.Deps{
		Content:    library,
		Translator: generation.NewTranslator(provider, cfg.Generation),
		Generator:  generation.NewRunner(provider, queue, cfg.Generation, logging.Component(log, "generation")),
		Output:     queue,
		Listener:   speech.NewListener(recognizer, queue, cfg.ListenTimeout, logging.Component(log, "listener")),
		Recorder:   console.NewRecorder(answersDir(cmd, dbPath)),
		Readiness:  provider,
		Journal:    eventRepo,
	}
	if camera := cameraDir(cmd); camera != "" {
		cam, err := console.NewCamera(camera)
		if err != nil {
			return err
		}
		deps.Camera = cam
	}

	sess, err := session.New(deps, cfg, log)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	go func() {
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("session stopped", zap.Error(err))
		}
	}()

	err = app.Run(ctx, app.Options{
		Session:  sess,
		Input:    recognizer,
		Captions: synth.Captions(),
		Log:      logging.Component(log, "app"),
	})
	cancel()
	<-sess.Done()
	return err
}

func cameraDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("camera"); dir != "" {
		return dir
	}
	return os.Getenv("ECHOTUTOR_CAMERA")
}

// answersDir defaults to an answers/ directory beside the database.
func answersDir(cmd *cobra.Command, dbPath string) string {
	if dir, _ := cmd.Flags().GetString("answers"); dir != "" {
		return dir
	}
	return filepath.Join(filepath.Dir(dbPath), "answers")
}
