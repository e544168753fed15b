package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/lark"
	"github.com/EIV-Education/cvtohireteacher/internal/logger"
	"github.com/EIV-Education/cvtohireteacher/internal/settings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowSettings   = "Show current settings"
	PromptSetWebhook     = "Set webhook URL"
	PromptToggleSync     = "Toggle sync enabled"
	PromptEditTemplate   = "Edit extraction template"
	PromptResetTemplate  = "Reset template to default"
	PromptSendSample     = "Send a sample record to the webhook"
	PromptCloseSettings  = "Close"
	templatePreviewLimit = 400
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configure the Lark webhook and the extraction template",
	Run: func(_ *cobra.Command, _ []string) {
		runSettings()
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettings() {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	store, err := settings.NewStore(config.SettingsFile)
	if err != nil {
		logg.Fatal("locating the settings store", zap.Error(err))
	}

	stored, err := store.Load()
	if err != nil {
		logg.Fatal("loading settings", zap.Error(err))
	}

	prompt := promptui.Select{
		Label: "Settings",
		Items: []string{
			PromptShowSettings,
			PromptSetWebhook,
			PromptToggleSync,
			PromptEditTemplate,
			PromptResetTemplate,
			PromptSendSample,
			PromptCloseSettings,
		},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logg.Info("exiting settings", zap.Error(err))
			return
		}

		if action == PromptCloseSettings {
			return
		}

		if err := handleSettingsAction(ctx, action, store, stored, logg); err != nil {
			logg.Error("settings action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func handleSettingsAction(ctx context.Context, action string, store *settings.Store, stored *settings.Settings, logg *zap.Logger) error {
	switch action {
	case PromptShowSettings:
		fmt.Printf("settings file:  %s\n", store.Path())
		fmt.Printf("webhook url:    %s\n", stored.WebhookURL)
		fmt.Printf("sync enabled:   %v\n", stored.Enabled)
		fmt.Printf("template:\n%s\n", logger.TruncateForLog(stored.Template, templatePreviewLimit))
		return nil

	case PromptSetWebhook:
		input := promptui.Prompt{
			Label:     "Webhook URL (Lark Base automation)",
			Default:   stored.WebhookURL,
			AllowEdit: true,
		}
		url, err := input.Run()
		if err != nil {
			return err
		}
		stored.WebhookURL = strings.TrimSpace(url)
		return store.Save(stored)

	case PromptToggleSync:
		stored.Enabled = !stored.Enabled
		logg.Info("sync toggled", zap.Bool("enabled", stored.Enabled))
		return store.Save(stored)

	case PromptEditTemplate:
		input := promptui.Prompt{
			Label:     "Extraction template",
			Default:   stored.Template,
			AllowEdit: true,
		}
		template, err := input.Run()
		if err != nil {
			return err
		}
		if strings.TrimSpace(template) == "" {
			return fmt.Errorf("template must not be empty")
		}
		stored.Template = template
		return store.Save(stored)

	case PromptResetTemplate:
		confirm := promptui.Prompt{
			Label:     "Restore the extraction template to its default",
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			// Declined confirmation, nothing to do.
			return nil
		}
		stored.Template = cv.DefaultTemplate
		logg.Info("template restored to default")
		return store.Save(stored)

	case PromptSendSample:
		if !stored.SyncConfigured() {
			return fmt.Errorf("configure and enable the webhook URL first")
		}
		sample := cv.FromMap(cv.Sample(stored.Template))
		forwarder := lark.New(stored.WebhookURL, logg)
		if ok := forwarder.Send(ctx, sample, nil, true); !ok {
			return fmt.Errorf("sample dispatch failed, check the webhook URL")
		}
		logg.Info("sample record dispatched to the webhook")
		return nil

	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
