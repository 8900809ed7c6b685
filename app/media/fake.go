package media

import (
	"context"
	"io"
	"sync"
	"time"
)

// Memory keeps uploads in memory. Used by tests and local runs without
// an object store.
type Memory struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, objects: make(map[string][]byte)}
}

func (m *Memory) Upload(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		data, err := io.ReadAll(f.Body)
		if err != nil {
			return nil, err
		}
		key := objectKey(f.Name, time.Now())
		m.mu.Lock()
		m.objects[key] = data
		m.mu.Unlock()
		urls = append(urls, m.BaseURL+"/"+key)
	}
	return urls, nil
}

// Object returns the stored bytes for a URL produced by Upload.
func (m *Memory) Object(url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(url) <= len(m.BaseURL)+1 {
		return nil, false
	}
	data, ok := m.objects[url[len(m.BaseURL)+1:]]
	return data, ok
}
