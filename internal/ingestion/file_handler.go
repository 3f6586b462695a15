package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UploadBaseName is the stored name of every upload; only the extension of
// the client's file name is kept.
const UploadBaseName = "uploaded_file"

// FileHandler stores uploads under one directory per session
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// SessionDir returns the upload directory of a session
func (fh *FileHandler) SessionDir(sessionID string) string {
	return filepath.Join(fh.uploadsDir, filepath.Base(sessionID))
}

// SaveUploadedFile writes an upload to <uploads>/<session>/uploaded_file<ext>,
// replacing the session's previous upload.
func (fh *FileHandler) SaveUploadedFile(sessionID, filename string, content io.Reader) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}

	dir := fh.SessionDir(sessionID)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear session upload directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	filePath := filepath.Join(dir, UploadBaseName+ext)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// RemoveSession deletes a session's upload directory
func (fh *FileHandler) RemoveSession(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := os.RemoveAll(fh.SessionDir(sessionID)); err != nil {
		return fmt.Errorf("failed to remove session uploads: %w", err)
	}
	return nil
}
