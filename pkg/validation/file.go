package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"equipment-portal/pkg/constants"
)

type UploadRule struct {
	MaxSizeMB        int
	AllowedMimeTypes []string
}

var UploadRules = map[constants.UploadContext]UploadRule{
	constants.UploadContextCompletionPhoto: {
		MaxSizeMB:        10,
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
	},
	// .xlsx workbooks sniff as zip archives.
	constants.UploadContextEquipmentImport: {
		MaxSizeMB:        20,
		AllowedMimeTypes: []string{"application/zip"},
	},
}

// ValidateFile checks the size and the sniffed content type of an upload.
// file is rewound before returning.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, uploadContext constants.UploadContext) error {
	rules, ok := UploadRules[uploadContext]
	if !ok {
		return fmt.Errorf("unknown upload context %q", uploadContext)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := int64(rules.MaxSizeMB) * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return fmt.Errorf("file size %.2f MB exceeds the %d MB limit", float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	mimeType, err := DetectContentType(file)
	if err != nil {
		return err
	}
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return fmt.Errorf("file type %s is not allowed", mimeType)
	}
	return nil
}

func DetectContentType(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return http.DetectContentType(buffer[:n]), nil
}
