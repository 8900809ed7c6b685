package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("Photo.JPG", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "2024/05/06/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, objectKey("Photo.JPG", time.Now()))
}

func TestMemoryUpload(t *testing.T) {
	m := NewMemory("https://cdn.test")
	urls, err := m.Upload(context.Background(), []File{
		{Name: "a.png", Body: strings.NewReader("first")},
		{Name: "b.png", Body: strings.NewReader("second")},
	})
	require.NoError(t, err)
	require.Len(t, urls, 2)

	data, ok := m.Object(urls[1])
	require.True(t, ok)
	assert.Equal(t, "second", string(data))
}

func TestDisabled(t *testing.T) {
	urls, err := Disabled{}.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, urls)

	_, err = Disabled{}.Upload(context.Background(), []File{{Name: "x"}})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewS3UploaderPublicURL(t *testing.T) {
	up, err := NewS3Uploader(S3Config{Endpoint: "http://minio:9000", Bucket: "media"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/media", up.cfg.PublicURL)

	up, err = NewS3Uploader(S3Config{Endpoint: "minio:9000", Bucket: "media", PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", up.cfg.PublicURL)
}
