// Package store holds the two file-backed records the tool owns: the learned
// answer cache and the job catalogue. Both are read once at startup, kept
// authoritative in memory, and fully rewritten on every change. A missing or
// corrupt file is never fatal; the run starts from empty and rebuilds.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/phrase"
	"github.com/vector81/Jobby/utils"
)

// AnswerStore maps question labels, exactly as first observed, to the answer
// that was given. Entries are only ever added or overwritten, never deleted.
type AnswerStore struct {
	path    string
	entries map[string]string
}

// LoadAnswers reads the cache at path. Absent or malformed content yields an
// empty store: losing learned answers costs resolution quality, not
// correctness.
func LoadAnswers(path string) *AnswerStore {
	s := &AnswerStore{path: path, entries: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("answer store %s unreadable, starting empty: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Warnf("answer store %s malformed, starting empty: %v", path, err)
		s.entries = map[string]string{}
	}
	return s
}

// Lookup returns the answer stored for label. An exact key wins; otherwise
// the first stored key, in sorted order, that occurs inside label wins. The
// sorted scan keeps repeated runs deterministic when several keys match.
func (s *AnswerStore) Lookup(label string) (string, bool) {
	if v, ok := s.entries[label]; ok {
		return v, true
	}

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if phrase.ContainsFold(label, k) {
			return s.entries[k], true
		}
	}
	return "", false
}

// Put records answer under label verbatim. Blank labels are ignored.
func (s *AnswerStore) Put(label, answer string) {
	if strings.TrimSpace(label) == "" {
		return
	}
	s.entries[label] = answer
}

// Len reports the number of learned entries.
func (s *AnswerStore) Len() int {
	return len(s.entries)
}

// Flush rewrites the whole file. Keys are emitted in sorted order, so
// flushing unchanged state produces byte-identical files.
func (s *AnswerStore) Flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode answer store: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write answer store %s: %w", s.path, err)
	}
	return nil
}
