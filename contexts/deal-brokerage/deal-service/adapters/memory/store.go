package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

// Store is the in-memory deal repository used by tests and the in-memory
// module wiring. It also serves as Clock, IDGenerator and ChannelDirectory
// so a module can run with no infrastructure at all.
type Store struct {
	mu sync.RWMutex

	deals     map[string]entities.Deal
	revisions map[string][]entities.CreativeRevision
	channels  map[string]ports.ChannelRef
	formats   map[string]ports.AdFormatRef

	now *time.Time
}

func NewStore(channels []ports.ChannelRef, formats []ports.AdFormatRef) *Store {
	channelIndex := make(map[string]ports.ChannelRef, len(channels))
	for _, item := range channels {
		channelIndex[item.ChannelID] = item
	}
	formatIndex := make(map[string]ports.AdFormatRef, len(formats))
	for _, item := range formats {
		formatIndex[item.AdFormatID] = item
	}
	return &Store{
		deals:     make(map[string]entities.Deal),
		revisions: make(map[string][]entities.CreativeRevision),
		channels:  channelIndex,
		formats:   formatIndex,
	}
}

// SetNow pins the store clock for deterministic sweep tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pinned := now.UTC()
	s.now = &pinned
}

func (s *Store) CreateDeal(_ context.Context, deal entities.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals[deal.DealID] = deal
	return nil
}

func (s *Store) GetDeal(_ context.Context, dealID string) (entities.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deal, exists := s.deals[strings.TrimSpace(dealID)]
	if !exists {
		return entities.Deal{}, domainerrors.ErrDealNotFound
	}
	return deal, nil
}

func (s *Store) ListDeals(_ context.Context, filter ports.DealFilter) ([]entities.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Deal, 0, len(s.deals))
	for _, deal := range s.deals {
		if filter.PartyID != "" && deal.OwnerID != filter.PartyID && deal.ApplicantID != filter.PartyID {
			continue
		}
		if filter.ChannelID != "" && deal.ChannelID != filter.ChannelID {
			continue
		}
		if filter.State != "" && deal.State != filter.State {
			continue
		}
		items = append(items, deal)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateDeal(_ context.Context, deal entities.Deal, expectedState entities.DealState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.deals[deal.DealID]
	if !exists {
		return domainerrors.ErrDealNotFound
	}
	if current.State != expectedState {
		return domainerrors.ErrStaleState
	}
	s.deals[deal.DealID] = deal
	return nil
}

func (s *Store) HasActiveDirectDeal(_ context.Context, channelID, adFormatID, applicantID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, deal := range s.deals {
		if deal.DealType != entities.DealTypeChannelDirect {
			continue
		}
		if deal.ChannelID == channelID && deal.AdFormatID == adFormatID &&
			deal.ApplicantID == applicantID && !deal.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) HasDealForApplication(_ context.Context, applicationID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, deal := range s.deals {
		if deal.ApplicationID != "" && deal.ApplicationID == applicationID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AddCreativeRevision(_ context.Context, revision entities.CreativeRevision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revisions[revision.DealID] = append(s.revisions[revision.DealID], revision)
	return nil
}

func (s *Store) ListCreativeRevisions(_ context.Context, dealID string) ([]entities.CreativeRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]entities.CreativeRevision(nil), s.revisions[strings.TrimSpace(dealID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Version < items[j].Version
	})
	return items, nil
}

func (s *Store) UpdateCreativeRevision(_ context.Context, revision entities.CreativeRevision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.revisions[revision.DealID]
	for i, item := range items {
		if item.RevisionID == revision.RevisionID {
			items[i] = revision
			return nil
		}
	}
	return domainerrors.ErrDealNotFound
}

func (s *Store) LatestCreativeRevision(_ context.Context, dealID string) (entities.CreativeRevision, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.revisions[strings.TrimSpace(dealID)]
	if len(items) == 0 {
		return entities.CreativeRevision{}, false, nil
	}
	latest := items[0]
	for _, item := range items[1:] {
		if item.Version > latest.Version {
			latest = item
		}
	}
	return latest, true, nil
}

func (s *Store) ListDuePublish(_ context.Context, threshold time.Time, limit int) ([]entities.Deal, error) {
	return s.listByState(entities.DealStateScheduled, limit, func(deal entities.Deal) bool {
		return deal.ScheduledPostTime != nil && !deal.ScheduledPostTime.After(threshold)
	})
}

func (s *Store) ListDueCompletion(_ context.Context, threshold time.Time, limit int) ([]entities.Deal, error) {
	return s.listByState(entities.DealStatePublished, limit, func(deal entities.Deal) bool {
		return deal.ActualPostTime != nil && !deal.ActualPostTime.After(threshold)
	})
}

func (s *Store) ListStale(_ context.Context, threshold time.Time, limit int) ([]entities.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Deal, 0)
	for _, deal := range s.deals {
		if deal.State != entities.DealStatePending && deal.State != entities.DealStateAwaitingPayment {
			continue
		}
		if deal.TimeoutAt == nil || deal.TimeoutAt.After(threshold) {
			continue
		}
		items = append(items, deal)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) listByState(state entities.DealState, limit int, match func(entities.Deal) bool) ([]entities.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Deal, 0)
	for _, deal := range s.deals {
		if deal.State != state || !match(deal) {
			continue
		}
		items = append(items, deal)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) GetChannel(_ context.Context, channelID string) (ports.ChannelRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, exists := s.channels[strings.TrimSpace(channelID)]
	if !exists {
		return ports.ChannelRef{}, domainerrors.ErrChannelNotFound
	}
	return channel, nil
}

func (s *Store) GetAdFormat(_ context.Context, adFormatID string) (ports.AdFormatRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	format, exists := s.formats[strings.TrimSpace(adFormatID)]
	if !exists {
		return ports.AdFormatRef{}, domainerrors.ErrAdFormatNotFound
	}
	return format, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return *s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
