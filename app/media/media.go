// Package media stores uploaded attachments and hands back public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDisabled is returned when no object store is configured.
var ErrDisabled = errors.New("media uploads are not configured")

// File is one uploaded attachment.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader persists files and returns their public URLs in input order.
type Uploader interface {
	Upload(ctx context.Context, files []File) ([]string, error)
}

// objectKey builds a collision-free key that keeps the file extension.
func objectKey(name string, now time.Time) string {
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("%s/%s%s", now.UTC().Format("2006/01/02"), uuid.NewString(), ext)
}

// Disabled rejects every upload.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	return nil, ErrDisabled
}
