package storage

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ImagePolicy constrains accepted upload formats and sizes.
type ImagePolicy struct {
	MaxFileSizeKB     int64
	AllowedExtensions []string
}

// Validate checks an uploaded file against the policy.
func (p ImagePolicy) Validate(file *multipart.FileHeader) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	allowed := false
	for _, a := range p.AllowedExtensions {
		if ext == strings.ToLower(a) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("the image must be a file of type: %s", strings.Join(p.AllowedExtensions, ", "))
	}
	if p.MaxFileSizeKB > 0 && file.Size > p.MaxFileSizeKB*1024 {
		return fmt.Errorf("the image may not be greater than %d kilobytes", p.MaxFileSizeKB)
	}
	return nil
}
