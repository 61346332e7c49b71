package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"atelier/web/internal/cache"
	"atelier/web/internal/content"
	"atelier/web/internal/work"
)

// ErrOperationInFlight rejects a second toggle or delete for a work whose
// previous one hasn't settled. Mutations on one work are serialized; a rapid
// double-submit must not race the server into an unintended state.
var ErrOperationInFlight = errors.New("an operation for this work is already in flight")

// WorkService orchestrates the work lifecycle: reads for the gallery pages
// and the four session-gated mutations. Reads of the public listings go
// through the cache; every mutation invalidates it.
type WorkService struct {
	client *content.Client
	cache  *cache.WorkCache
	log    zerolog.Logger

	mu       sync.Mutex
	inFlight map[int]struct{}
}

func NewWorkService(client *content.Client, workCache *cache.WorkCache, log zerolog.Logger) *WorkService {
	return &WorkService{
		client:   client,
		cache:    workCache,
		log:      log.With().Str("component", "work_service").Logger(),
		inFlight: make(map[int]struct{}),
	}
}

func (s *WorkService) PublicWorks(ctx context.Context) ([]work.Work, error) {
	if works, ok := s.cache.GetList(ctx); ok {
		return works, nil
	}
	works, err := s.client.ListWorks(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, works)
	return works, nil
}

func (s *WorkService) CategoryWorks(ctx context.Context, category work.Category) ([]work.Work, error) {
	if works, ok := s.cache.GetCategory(ctx, category); ok {
		return works, nil
	}
	works, err := s.client.ListCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.cache.SetCategory(ctx, category, works)
	return works, nil
}

func (s *WorkService) Get(ctx context.Context, id int) (work.Work, error) {
	return s.client.GetWork(ctx, id)
}

// AllWorks lists every work, drafts included, for the admin pages. Never
// cached: the admin must see the state the API holds right now.
func (s *WorkService) AllWorks(ctx context.Context) ([]work.Work, error) {
	return s.client.ListWorks(ctx)
}

func (s *WorkService) Create(ctx context.Context, token string, in work.Input) (work.Work, error) {
	if token == "" {
		return work.Work{}, content.ErrUnauthorized
	}
	created, err := s.client.CreateWork(ctx, token, in)
	if err != nil {
		return work.Work{}, err
	}
	s.cache.Invalidate(ctx)
	s.log.Info().Int("work_id", created.ID).Str("category", string(created.Category)).Msg("work created")
	return created, nil
}

// Update edits a work's fields. The current record is fetched first so the
// publication flag rides through unchanged.
func (s *WorkService) Update(ctx context.Context, token string, id int, in work.Input) (work.Work, error) {
	if token == "" {
		return work.Work{}, content.ErrUnauthorized
	}
	if err := in.Validate(true); err != nil {
		return work.Work{}, err
	}
	current, err := s.client.GetWork(ctx, id)
	if err != nil {
		return work.Work{}, err
	}
	updated, err := s.client.UpdateWork(ctx, token, id, in, current.IsPublished)
	if err != nil {
		return work.Work{}, err
	}
	s.cache.Invalidate(ctx)
	s.log.Info().Int("work_id", id).Msg("work updated")
	return updated, nil
}

// TogglePublish inverts visibility on the server and returns the
// authoritative record. The displayed state must be reconciled from the
// return value, never flipped locally.
func (s *WorkService) TogglePublish(ctx context.Context, token string, id int) (work.Work, error) {
	if token == "" {
		return work.Work{}, content.ErrUnauthorized
	}
	if !s.begin(id) {
		return work.Work{}, ErrOperationInFlight
	}
	defer s.end(id)

	updated, err := s.client.TogglePublish(ctx, token, id)
	if err != nil {
		return work.Work{}, err
	}
	s.cache.Invalidate(ctx)
	s.log.Info().Int("work_id", id).Bool("is_published", updated.IsPublished).Msg("work visibility toggled")
	return updated, nil
}

func (s *WorkService) Delete(ctx context.Context, token string, id int) error {
	if token == "" {
		return content.ErrUnauthorized
	}
	if !s.begin(id) {
		return ErrOperationInFlight
	}
	defer s.end(id)

	if err := s.client.DeleteWork(ctx, token, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.log.Info().Int("work_id", id).Msg("work deleted")
	return nil
}

// WarmCache refreshes the public listing so the next gallery view after an
// invalidation doesn't pay the API round-trip.
func (s *WorkService) WarmCache(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}
	works, err := s.client.ListWorks(ctx)
	if err != nil {
		return err
	}
	s.cache.SetList(ctx, works)
	return nil
}

func (s *WorkService) begin(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *WorkService) end(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
