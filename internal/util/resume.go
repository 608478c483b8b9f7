package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/gabriel-vasile/mimetype"
)

// MaxResumeSize is the largest resume accepted for upload.
const MaxResumeSize = 5 * 1024 * 1024

// NewResumeFile builds a ResumeFile from uploaded bytes. declared is the
// content type sent by the client; when it is empty or generic the type is
// sniffed from the content.
func NewResumeFile(filename, declared string, content []byte) (*dto.ResumeFile, error) {
	if len(content) > MaxResumeSize {
		return nil, fmt.Errorf("resume file size is too large (max %dMB)", MaxResumeSize/1024/1024)
	}
	contentType := declared
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(content).String()
	}
	return &dto.ResumeFile{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// ReadResumeFile loads a resume from disk and detects its content type.
func ReadResumeFile(path string) (*dto.ResumeFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxResumeSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return NewResumeFile(path, "", content)
}
