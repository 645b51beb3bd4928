package models

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
)

// IssueForm collects the create-issue fields plus an optional attachment.
// Encode produces the finished multipart body; the request gateway forwards
// it verbatim so the boundary in the content type always matches the body.
type IssueForm struct {
	Title       string   `validate:"required"`
	Description string
	Severity    Severity `validate:"required,oneof=LOW MEDIUM HIGH"`
	Priority    Priority `validate:"omitempty,oneof=BLOCKER CRITICAL MINOR TRIVIAL"`
	Tags        []string

	// FileName and File describe the optional attachment. File is read
	// fully during Encode.
	FileName string
	File     io.Reader
}

// Encode validates the form and renders it as a multipart body. It returns
// the body and the boundary-aware content type to send with it.
func (f *IssueForm) Encode() (io.Reader, string, error) {
	if err := Validate(f); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", f.Title},
		{"description", f.Description},
		{"severity", string(f.Severity)},
	}
	if f.Priority != "" {
		fields = append(fields, [2]string{"priority", string(f.Priority)})
	}
	for _, tag := range f.Tags {
		fields = append(fields, [2]string{"tags", tag})
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	if f.File != nil {
		part, err := w.CreateFormFile("file", filepath.Base(f.FileName))
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, f.File); err != nil {
			return nil, "", fmt.Errorf("copy attachment: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
