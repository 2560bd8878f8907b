package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"snnverify/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	results     map[string]model.RunResult
	validations map[string]model.ValidationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.results = make(map[string]model.RunResult)
	s.validations = make(map[string]model.ValidationRecord)
	return nil
}

func (s *MemoryStore) SaveRunResult(_ context.Context, result model.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[recordKey(result.RunID, result.Variant)] = result
	return nil
}

func (s *MemoryStore) GetRunResult(_ context.Context, runID, variant string) (model.RunResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[recordKey(runID, variant)]
	return result, ok, nil
}

func (s *MemoryStore) ListRunResults(_ context.Context, runID string) ([]model.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := runID + "/"
	out := make([]model.RunResult, 0)
	for key, result := range s.results {
		if strings.HasPrefix(key, prefix) {
			out = append(out, result)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Variant < out[j].Variant
	})
	return out, nil
}

func (s *MemoryStore) SaveValidation(_ context.Context, record model.ValidationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.validations[recordKey(record.RunID, record.Variant)] = record
	return nil
}

func (s *MemoryStore) GetValidation(_ context.Context, runID, variant string) (model.ValidationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.validations[recordKey(runID, variant)]
	return record, ok, nil
}

func recordKey(runID, variant string) string {
	return runID + "/" + variant
}
