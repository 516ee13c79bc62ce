package storage

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImagePolicyValidate(t *testing.T) {
	policy := ImagePolicy{MaxFileSizeKB: 2048, AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "svg"}}

	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"jpg ok", "cover.jpg", 1024, false},
		{"uppercase ext", "cover.PNG", 1024, false},
		{"svg ok", "logo.svg", 10, false},
		{"pdf rejected", "cover.pdf", 1024, true},
		{"no extension", "cover", 1024, true},
		{"too large", "cover.jpg", 2048*1024 + 1, true},
		{"exactly at limit", "cover.jpg", 2048 * 1024, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Validate(&multipart.FileHeader{Filename: tc.filename, Size: tc.size})
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
