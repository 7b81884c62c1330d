package lsp

import "sync"

type document struct {
	text    string
	version int32
}

// DocumentStore holds open config documents keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]document)}
}

// Set stores text for uri unless a newer version is already held.
// It reports whether the store changed.
func (s *DocumentStore) Set(uri, text string, version int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.docs[uri]; ok && cur.version > version {
		return false
	}
	s.docs[uri] = document{text: text, version: version}
	return true
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc.text, ok
}

// Version returns the stored version of uri.
func (s *DocumentStore) Version(uri string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc.version, ok
}
