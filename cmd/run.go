package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/EIV-Education/cvtohireteacher/internal/ai"
	"github.com/EIV-Education/cvtohireteacher/internal/ai/gemini"
	"github.com/EIV-Education/cvtohireteacher/internal/input"
	"github.com/EIV-Education/cvtohireteacher/internal/lark"
	"github.com/EIV-Education/cvtohireteacher/internal/logger"
	"github.com/EIV-Education/cvtohireteacher/internal/review"
	"github.com/EIV-Education/cvtohireteacher/internal/secrets"
	"github.com/EIV-Education/cvtohireteacher/internal/session"
	"github.com/EIV-Education/cvtohireteacher/internal/settings"
	"github.com/EIV-Education/cvtohireteacher/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptUploadFile = "Upload a file"
	PromptPasteText  = "Paste text"

	// How long the terminal lingers on the outcome before the status
	// machine reverts to idle.
	errorRevertDelay   = 2 * time.Second
	successRevertDelay = 2 * time.Second
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process one CV: extract with Gemini, review the fields and sync to Lark Base",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("file", "f", "", "path to the CV file (pdf, docx, doc or an image)")
	runCmd.Flags().StringP("text", "t", "", "pasted CV text")
	runCmd.Flags().BoolP("yes", "y", false, "skip the review editor and send the extracted record as-is")
}

// run drives one pass of the pipeline: collect input, extract, review, send.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	logg.Info("starting the cv formatter", zap.String("version", version))

	store, err := settings.NewStore(config.SettingsFile)
	if err != nil {
		logg.Fatal("locating the settings store", zap.Error(err))
	}

	// Settings are re-read per run, not snapshotted.
	stored, err := store.Load()
	if err != nil {
		logg.Fatal("loading settings", zap.Error(err))
	}

	sess := session.New()
	sess.Text = strings.TrimSpace(cmd.Flag("text").Value.String())

	if path := strings.TrimSpace(cmd.Flag("file").Value.String()); path != "" {
		file, err := input.Load(path)
		if err != nil {
			logg.Fatal("loading cv file", zap.Error(err))
		}
		sess.SetFile(file)
	}

	if sess.Text == "" && sess.File == nil {
		if err := collectInput(sess, logg); err != nil {
			logg.Info("exiting", zap.String("reason", "no input provided"), zap.Error(err))
			return
		}
	}

	if err := sess.StartProcessing(stored.SyncConfigured()); err != nil {
		if errors.Is(err, session.ErrNoSyncTarget) {
			logg.Error("cannot start processing",
				zap.Error(err),
				zap.String("hint", "run `"+app+" settings` to configure the Lark webhook"),
			)
			return
		}
		logg.Error("cannot start processing", zap.Error(err))
		return
	}

	extractor, err := newExtractor(ctx, config.AI, logg)
	if err != nil {
		logg.Fatal(
			"building the gemini extractor",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	logg.Info("analyzing cv", zap.String("status", sess.Status().String()))

	record, err := extractor.Extract(ctx, stored.Template, sess.Text, sess.File)
	if err != nil {
		_ = sess.Fail()
		logg.Error("cv extraction failed", zap.Error(err))
		_ = utils.WaitFor(ctx, errorRevertDelay)
		_ = sess.Revert()
		return
	}

	if err := sess.FinishExtraction(record); err != nil {
		logg.Fatal("finishing extraction", zap.Error(err))
	}

	logg.Info("cv analyzed",
		zap.Int("fields", len(record.Fields)),
		zap.Int("extra_fields", len(record.Extra)),
	)

	forwarder := lark.New(stored.WebhookURL, logg)
	editor := review.NewEditor(logg)
	autoApprove := strings.EqualFold(cmd.Flag("yes").Value.String(), "true")

	for {
		outcome := review.OutcomeConfirmed
		if !autoApprove {
			outcome, err = editor.Run(sess)
			if err != nil {
				_ = sess.Cancel()
				logg.Info("exiting", zap.String("reason", "review aborted"), zap.Error(err))
				return
			}
		}

		if outcome == review.OutcomeCancelled {
			_ = sess.Cancel()
			logg.Info("review cancelled, record discarded", zap.String("status", sess.Status().String()))
			return
		}

		if err := sess.Confirm(); err != nil {
			logg.Fatal("confirming record", zap.Error(err))
		}

		if ok := forwarder.Send(ctx, sess.Record, sess.File, false); !ok {
			_ = sess.SendFailed()
			logg.Warn("sending to lark failed, the record is preserved for another attempt",
				zap.String("status", sess.Status().String()),
			)
			if autoApprove {
				return
			}
			continue
		}

		if err := sess.SendSucceeded(); err != nil {
			logg.Fatal("recording send success", zap.Error(err))
		}

		logg.Info("cv stored in lark base", zap.String("status", sess.Status().String()))
		_ = utils.WaitFor(ctx, successRevertDelay)
		_ = sess.Revert()
		return
	}
}

// collectInput asks for the CV interactively when no flags provided one.
func collectInput(sess *session.Session, logg *zap.Logger) error {
	modePrompt := promptui.Select{
		Label: "How do you want to provide the CV?",
		Items: []string{PromptUploadFile, PromptPasteText},
	}

	_, mode, err := modePrompt.Run()
	if err != nil {
		return err
	}

	if mode == PromptPasteText {
		textPrompt := promptui.Prompt{Label: "CV text"}
		text, err := textPrompt.Run()
		if err != nil {
			return err
		}
		sess.Text = strings.TrimSpace(text)
		return nil
	}

	for {
		pathPrompt := promptui.Prompt{Label: "Path to the CV file"}
		path, err := pathPrompt.Run()
		if err != nil {
			return err
		}

		file, err := input.Load(strings.TrimSpace(path))
		if err != nil {
			// A rejected file blocks only this upload; ask again.
			logg.Error("cv file rejected", zap.Error(err))
			continue
		}

		sess.SetFile(file)
		return nil
	}
}

func newExtractor(ctx context.Context, cfg *AIConfig, logg *zap.Logger) (*gemini.Extractor, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMissingAPIKey, err)
	}

	genLogger := logger.WithFields(logg, logger.CommonFields("gemini", cfg.Gemini.Model)...)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxAttempts, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
