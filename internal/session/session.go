package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/input"
)

// Status is the single source of truth for which stage of the pipeline is
// active. Exactly one status is active at a time; entry into Processing and
// Sending is gated here, which is what prevents overlapping extractions or
// sends.
type Status int

const (
	Idle Status = iota
	Processing
	Review
	Sending
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Processing:
		return "PROCESSING"
	case Review:
		return "REVIEW"
	case Sending:
		return "SENDING"
	case Success:
		return "SUCCESS"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrNoSyncTarget blocks processing until a webhook is configured.
	ErrNoSyncTarget = errors.New("sync webhook is not configured")

	// ErrNoContent blocks processing without pasted text or a file.
	ErrNoContent = errors.New("paste the CV text or provide a file first")
)

// Session carries the in-flight pipeline state: the pasted or extracted text,
// the uploaded file and, between extraction and send, the record under
// review. The record never outlives the session.
type Session struct {
	status Status

	Text   string
	File   *input.UploadedFile
	Record *cv.Record
}

func New() *Session {
	return &Session{status: Idle}
}

func (s *Session) Status() Status {
	return s.status
}

// SetFile replaces the uploaded file wholesale. Word documents feed their
// extracted text into the text buffer; images clear previously pasted text so
// the model analyzes the attachment alone.
func (s *Session) SetFile(file *input.UploadedFile) {
	s.File = file
	if file == nil {
		return
	}
	if file.ExtractedText != "" {
		s.Text = file.ExtractedText
	} else if file.IsImage() {
		s.Text = ""
	}
}

// StartProcessing guards the Idle -> Processing transition: a sync target
// must be configured and there must be content to extract from.
func (s *Session) StartProcessing(syncConfigured bool) error {
	if err := s.require(Idle, "start processing"); err != nil {
		return err
	}

	if !syncConfigured {
		return ErrNoSyncTarget
	}

	if strings.TrimSpace(s.Text) == "" && s.File == nil {
		return ErrNoContent
	}

	s.status = Processing
	return nil
}

// FinishExtraction moves Processing -> Review with the extracted record.
func (s *Session) FinishExtraction(record *cv.Record) error {
	if err := s.require(Processing, "finish extraction"); err != nil {
		return err
	}

	s.Record = record
	s.status = Review
	return nil
}

// Fail moves Processing -> Error. Text and file are kept so the user can
// retry after the revert.
func (s *Session) Fail() error {
	if err := s.require(Processing, "fail"); err != nil {
		return err
	}

	s.status = Error
	return nil
}

// Confirm moves Review -> Sending.
func (s *Session) Confirm() error {
	if err := s.require(Review, "confirm"); err != nil {
		return err
	}

	s.status = Sending
	return nil
}

// SendFailed returns Sending -> Review, preserving the record for a manual
// re-confirm.
func (s *Session) SendFailed() error {
	if err := s.require(Sending, "report send failure"); err != nil {
		return err
	}

	s.status = Review
	return nil
}

// SendSucceeded moves Sending -> Success.
func (s *Session) SendSucceeded() error {
	if err := s.require(Sending, "report send success"); err != nil {
		return err
	}

	s.status = Success
	return nil
}

// Cancel discards the record and returns Review -> Idle. The file is
// retained so the user can re-run extraction without re-selecting it.
func (s *Session) Cancel() error {
	if err := s.require(Review, "cancel"); err != nil {
		return err
	}

	s.Record = nil
	s.status = Idle
	return nil
}

// Revert returns Error or Success to Idle after the display delay. A
// successful send clears everything; an error keeps the input for a retry.
func (s *Session) Revert() error {
	switch s.status {
	case Success:
		s.Record = nil
		s.File = nil
		s.Text = ""
	case Error:
	default:
		return s.invalid("revert")
	}

	s.status = Idle
	return nil
}

func (s *Session) require(status Status, action string) error {
	if s.status != status {
		return s.invalid(action)
	}
	return nil
}

func (s *Session) invalid(action string) error {
	return fmt.Errorf("cannot %s while status is %s", action, s.status)
}
