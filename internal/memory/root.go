package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

// Store keeps SLOs and drafts in process memory. Records are copied in and
// out so callers never share state with the store.
type Store struct {
	logger  *slog.Logger
	lock    sync.RWMutex
	slos    []*aggregates.SLO
	drafts  map[string]string
	latency time.Duration
}

func New(logger *slog.Logger, config Configuration) (*Store, error) {
	var latency time.Duration
	if config.Latency != "" {
		d, err := time.ParseDuration(config.Latency)
		if err != nil {
			return nil, fmt.Errorf("invalid memory store latency %s: %w", config.Latency, err)
		}
		latency = d
	}
	store := &Store{
		logger:  logger,
		slos:    []*aggregates.SLO{},
		drafts:  make(map[string]string),
		latency: latency,
	}
	if config.Seed {
		logger.Info("seeding the memory store with the mock SLO dataset")
		store.slos = MockSLOs()
	}
	return store, nil
}

// wait simulates the backend round trip. It returns early when the context
// is done.
func (s *Store) wait(ctx context.Context) error {
	if s.latency == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) index(id string) int {
	for i, slo := range s.slos {
		if slo.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) CreateSLO(ctx context.Context, slo *aggregates.SLO) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.index(slo.ID) != -1 {
		return er.Newf("a SLO with id %s already exists", er.Conflict, true, slo.ID)
	}
	s.slos = append(s.slos, slo.Copy())
	return nil
}

func (s *Store) UpdateSLO(ctx context.Context, slo *aggregates.SLO) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	i := s.index(slo.ID)
	if i == -1 {
		return er.New("SLO not found", er.NotFound, true)
	}
	s.slos[i] = slo.Copy()
	return nil
}

func (s *Store) GetSLO(ctx context.Context, id string) (*aggregates.SLO, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	i := s.index(id)
	if i == -1 {
		return nil, er.New("SLO not found", er.NotFound, true)
	}
	return s.slos[i].Copy(), nil
}

func (s *Store) DeleteSLO(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	i := s.index(id)
	if i == -1 {
		return er.New("SLO not found", er.NotFound, true)
	}
	s.slos = append(s.slos[:i:i], s.slos[i+1:]...)
	return nil
}

func (s *Store) ListSLOs(ctx context.Context) ([]*aggregates.SLO, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	result := make([]*aggregates.SLO, 0, len(s.slos))
	for _, slo := range s.slos {
		result = append(result, slo.Copy())
	}
	return result, nil
}

func (s *Store) CountSLOs(ctx context.Context) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.slos), nil
}

// ApplyChanges applies all changes or none of them.
func (s *Store) ApplyChanges(ctx context.Context, changes aggregates.Changes) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, slo := range changes.Created {
		if s.index(slo.ID) != -1 {
			return er.Newf("a SLO with id %s already exists", er.Conflict, true, slo.ID)
		}
	}
	for _, slo := range changes.Updated {
		if s.index(slo.ID) == -1 {
			return er.New("SLO not found", er.NotFound, true)
		}
	}
	deleted := make(map[string]bool, len(changes.Deleted))
	for _, id := range changes.Deleted {
		deleted[id] = true
	}
	result := make([]*aggregates.SLO, 0, len(s.slos)+len(changes.Created))
	for _, slo := range s.slos {
		if !deleted[slo.ID] {
			result = append(result, slo)
		}
	}
	for _, slo := range changes.Updated {
		for i := range result {
			if result[i].ID == slo.ID {
				result[i] = slo.Copy()
			}
		}
	}
	for _, slo := range changes.Created {
		result = append(result, slo.Copy())
	}
	s.slos = result
	return nil
}

func (s *Store) GetDraft(ctx context.Context, key string) (*string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	value, ok := s.drafts[key]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (s *Store) SaveDraft(ctx context.Context, key string, value string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.drafts[key] = value
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, key string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.drafts, key)
	return nil
}
