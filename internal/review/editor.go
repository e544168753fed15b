package review

import (
	"fmt"
	"strings"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/input"
	"github.com/EIV-Education/cvtohireteacher/internal/logger"
	"github.com/EIV-Education/cvtohireteacher/internal/session"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
)

const (
	actionConfirm     = "Confirm & send to Lark"
	actionReplaceFile = "Replace attached file"
	actionCancel      = "Cancel"

	optionCustom = "Enter a custom value"
	optionDone   = "Done"

	valuePreviewLen = 48
)

// Outcome is how the user left the review editor.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeCancelled
)

// Editor walks the user through the extracted fields before sending. Every
// edit lands on the in-memory record immediately; there is no commit or
// rollback step.
type Editor struct {
	logger   *zap.Logger
	loadFile func(path string) (*input.UploadedFile, error)
}

func NewEditor(log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}

	return &Editor{
		logger:   log,
		loadFile: input.Load,
	}
}

// Run loops over the field list until the user confirms or cancels.
func (e *Editor) Run(sess *session.Session) (Outcome, error) {
	for {
		items := make([]string, 0, len(cv.Fields)+3)
		for _, spec := range cv.Fields {
			items = append(items, fmt.Sprintf("%s: %s", spec.Label, preview(sess.Record.Get(spec.Key))))
		}
		items = append(items, actionReplaceFile, actionConfirm, actionCancel)

		prompt := promptui.Select{
			Label: "Review the extracted fields and confirm",
			Items: items,
			Size:  len(items),
		}

		idx, choice, err := prompt.Run()
		if err != nil {
			return OutcomeCancelled, err
		}

		switch choice {
		case actionConfirm:
			return OutcomeConfirmed, nil
		case actionCancel:
			return OutcomeCancelled, nil
		case actionReplaceFile:
			e.replaceFile(sess)
		default:
			if idx < len(cv.Fields) {
				if err := e.editField(sess.Record, cv.Fields[idx]); err != nil {
					return OutcomeCancelled, err
				}
			}
		}
	}
}

func (e *Editor) editField(record *cv.Record, spec cv.FieldSpec) error {
	switch spec.Kind {
	case cv.KindSingleSelect:
		return e.editSingleSelect(record, spec)
	case cv.KindMultiSelect:
		return e.editMultiSelect(record, spec)
	default:
		return e.editText(record, spec)
	}
}

func (e *Editor) editText(record *cv.Record, spec cv.FieldSpec) error {
	prompt := promptui.Prompt{
		Label:     spec.Label,
		Default:   record.Get(spec.Key),
		AllowEdit: true,
	}

	value, err := prompt.Run()
	if err != nil {
		return err
	}

	record.Set(spec.Key, strings.TrimSpace(value))
	return nil
}

func (e *Editor) editSingleSelect(record *cv.Record, spec cv.FieldSpec) error {
	prompt := promptui.Select{
		Label: spec.Label,
		Items: append([]string{cv.Sentinel}, spec.Options...),
	}

	_, value, err := prompt.Run()
	if err != nil {
		return err
	}

	record.Set(spec.Key, value)
	return nil
}

func (e *Editor) editMultiSelect(record *cv.Record, spec cv.FieldSpec) error {
	for {
		selected := cv.SplitSelection(record.Get(spec.Key))

		items := make([]string, 0, len(spec.Options)+2)
		for _, option := range spec.Options {
			marker := "[ ]"
			for _, token := range selected {
				if token == option {
					marker = "[x]"
					break
				}
			}
			items = append(items, marker+" "+option)
		}
		items = append(items, optionCustom, optionDone)

		prompt := promptui.Select{
			Label: fmt.Sprintf("%s (currently: %s)", spec.Label, record.Get(spec.Key)),
			Items: items,
			Size:  len(items),
		}

		idx, choice, err := prompt.Run()
		if err != nil {
			return err
		}

		switch choice {
		case optionDone:
			return nil
		case optionCustom:
			custom := promptui.Prompt{Label: "Custom value"}
			value, err := custom.Run()
			if err != nil {
				return err
			}
			if value = strings.TrimSpace(value); value != "" {
				record.Set(spec.Key, cv.JoinSelection(append(selected, value)))
			}
		default:
			record.ToggleOption(spec.Key, spec.Options[idx])
		}
	}
}

// replaceFile re-runs the upload pipeline for a new file without re-running
// extraction. A failed load leaves the previous attachment untouched.
func (e *Editor) replaceFile(sess *session.Session) {
	prompt := promptui.Prompt{Label: "Path to the replacement file"}

	path, err := prompt.Run()
	if err != nil {
		return
	}

	file, err := e.loadFile(strings.TrimSpace(path))
	if err != nil {
		e.logger.Error("replacing attached file", zap.Error(err))
		return
	}

	sess.File = file
	e.logger.Info("attached file replaced", zap.String("name", file.Name))
}

func preview(value string) string {
	if value == "" {
		return "-"
	}
	return logger.TruncateForLog(value, valuePreviewLen)
}
