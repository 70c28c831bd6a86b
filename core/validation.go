package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions is the set of audio file extensions the server accepts.
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".aiff", ".aif", ".m4a", ".ogg", ".pcm"}

// ValidateUpload checks a candidate upload before any network activity.
// It verifies that the file exists, carries a supported audio extension, and
// fits under maxSize bytes. The returned error is always a *ValidationError.
func ValidateUpload(path string, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range SupportedExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported file type %q (supported: MP3, WAV, FLAC, AIFF, M4A, OGG, PCM)", ext),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("cannot read file: %v", err)}
	}
	if info.IsDir() {
		return &ValidationError{Path: path, Reason: "is a directory"}
	}
	if maxSize > 0 && info.Size() > maxSize {
		return &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("file size %s exceeds the %s limit", FormatBytes(info.Size()), FormatBytes(maxSize)),
		}
	}

	return nil
}
