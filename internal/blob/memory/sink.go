// Package memory is the in-process result sink used in tests.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Object is one stored artifact.
type Object struct {
	Path        string
	ContentType string
	Data        []byte
}

// Sink stores artifacts in a map.
type Sink struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{objects: make(map[string]Object)}
}

// Put stores the data and returns a mem:// URI.
func (s *Sink) Put(_ context.Context, path, contentType string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = Object{
		Path:        path,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return "mem://" + path, nil
}

// Get returns a stored object.
func (s *Sink) Get(path string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Len reports the stored object count.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
