package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/input"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	contentType = "application/json"
	sourceTag   = "EIV HR CV Formatter"

	// Fixed attachment stand-ins for webhook test submissions.
	sampleAttachmentName = "Sample_CV.pdf"
	sampleAttachmentData = "VGVzdCBkYXRh"

	// timestampLayout renders day-first local time the way the receiving
	// base displays it.
	timestampLayout = "02/01/2006 15:04:05"
)

// Payload is the message shape the Lark Base automation webhook consumes:
// a human-readable JSON summary plus a structured record mirror.
type Payload struct {
	MsgType string  `json:"msg_type"`
	Content Content `json:"content"`
	Record  Fields  `json:"record"`
}

type Content struct {
	Text string `json:"text"`
}

type Fields struct {
	Fields map[string]string `json:"fields"`
}

type summary struct {
	Source        string            `json:"source"`
	IsTest        bool              `json:"is_test"`
	SubmissionID  string            `json:"submission_id"`
	ExtractedData map[string]string `json:"extracted_data"`
	Timestamp     string            `json:"timestamp"`
}

// Forwarder posts confirmed records to the configured sync webhook.
type Forwarder struct {
	URL        string
	HTTPClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func New(url string, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Forwarder{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Send forwards the record and file metadata to the webhook. The receiving
// endpoint's response is not inspectable (cross-origin opaque mode on the
// original surface; automation webhooks return nothing useful), so dispatch
// without a transport error is the only success signal. Network failures are
// logged and reported as false, never returned as an error. Without a
// configured URL Send is a no-op that reports success.
func (f *Forwarder) Send(ctx context.Context, record *cv.Record, file *input.UploadedFile, isTest bool) bool {
	if f.URL == "" {
		f.logger.Debug("no sync webhook configured, skipping send")
		return true
	}

	fields := f.mergeFields(record, file, isTest)

	submissionID := uuid.NewString()
	text, err := json.MarshalIndent(summary{
		Source:        sourceTag,
		IsTest:        isTest,
		SubmissionID:  submissionID,
		ExtractedData: fields,
		Timestamp:     f.now().Format(timestampLayout),
	}, "", "  ")
	if err != nil {
		f.logger.Error("marshaling webhook summary", zap.Error(err))
		return false
	}

	payload := Payload{
		MsgType: "text",
		Content: Content{Text: string(text)},
		Record:  Fields{Fields: fields},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		f.logger.Error("marshaling webhook payload", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(body))
	if err != nil {
		f.logger.Error("building webhook request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", contentType)

	f.logger.Debug("posting record to sync webhook",
		zap.String("submission_id", submissionID),
		zap.Bool("is_test", isTest),
	)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		f.logger.Error("sync webhook request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	f.logger.Debug("sync webhook dispatched",
		zap.String("submission_id", submissionID),
		zap.String("status", resp.Status),
	)

	return true
}

// mergeFields copies the record's merged fields and adds the attachment
// metadata and upload timestamp the receiving base expects.
func (f *Forwarder) mergeFields(record *cv.Record, file *input.UploadedFile, isTest bool) map[string]string {
	fields := record.Merged()

	switch {
	case file != nil:
		fields["file_attachment_name"] = file.Name
		fields["file_type"] = file.MIMEType
		fields["file_content_base64"] = file.Base64Payload()
	case isTest:
		fields["file_attachment_name"] = sampleAttachmentName
		fields["file_type"] = cv.Sentinel
		fields["file_content_base64"] = sampleAttachmentData
	default:
		fields["file_attachment_name"] = cv.Sentinel
		fields["file_type"] = cv.Sentinel
		fields["file_content_base64"] = ""
	}

	fields["upload_time"] = f.now().Format(timestampLayout)

	return fields
}
