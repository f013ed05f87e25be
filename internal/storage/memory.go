package storage

import (
	"context"
	"sort"
	"sync"

	"aethelgard/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	order       []string
	histories   map[string][]model.StepSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.order = nil
	s.histories = make(map[string][]model.StepSummary)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.order))
	for _, id := range s.order {
		runs = append(runs, s.runs[id])
	}
	// Newest first; insertion order breaks timestamp ties.
	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].CreatedAtUTC > runs[b].CreatedAtUTC
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) LatestRun(ctx context.Context) (model.RunRecord, bool, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil || len(runs) == 0 {
		return model.RunRecord{}, false, err
	}
	return runs[0], true, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, runID string, steps []model.StepSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]model.StepSummary, len(steps))
	copy(stored, steps)
	s.histories[runID] = stored
	return nil
}

func (s *MemoryStore) GetHistory(_ context.Context, runID string) ([]model.StepSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	steps, ok := s.histories[runID]
	return steps, ok, nil
}
