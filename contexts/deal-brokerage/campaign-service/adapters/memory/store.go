package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	"adbroker/contexts/deal-brokerage/campaign-service/ports"
)

// Store is the in-memory campaign repository used by tests and the in-memory
// module wiring. It also serves as Clock and IDGenerator.
type Store struct {
	mu sync.RWMutex

	campaigns    map[string]entities.Campaign
	applications map[string]entities.CampaignApplication

	now *time.Time
}

func NewStore() *Store {
	return &Store{
		campaigns:    make(map[string]entities.Campaign),
		applications: make(map[string]entities.CampaignApplication),
	}
}

// SetNow pins the store clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pinned := now.UTC()
	s.now = &pinned
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.AdvertiserID != "" && campaign.AdvertiserID != filter.AdvertiserID {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CreateApplication(_ context.Context, item entities.CampaignApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[item.ApplicationID] = item
	return nil
}

func (s *Store) GetApplication(_ context.Context, applicationID string) (entities.CampaignApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, exists := s.applications[strings.TrimSpace(applicationID)]
	if !exists {
		return entities.CampaignApplication{}, domainerrors.ErrApplicationNotFound
	}
	return item, nil
}

func (s *Store) ListApplications(_ context.Context, campaignID string) ([]entities.CampaignApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.CampaignApplication, 0)
	for _, item := range s.applications {
		if item.CampaignID == strings.TrimSpace(campaignID) {
			items = append(items, item)
		}
	}
	sortApplications(items)
	return items, nil
}

func (s *Store) ListApplicationsByOwner(_ context.Context, ownerID string) ([]entities.CampaignApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.CampaignApplication, 0)
	for _, item := range s.applications {
		if item.ChannelOwnerID == strings.TrimSpace(ownerID) {
			items = append(items, item)
		}
	}
	sortApplications(items)
	return items, nil
}

func (s *Store) UpdateApplication(_ context.Context, item entities.CampaignApplication, expectedStatus entities.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.applications[item.ApplicationID]
	if !exists {
		return domainerrors.ErrApplicationNotFound
	}
	if current.Status != expectedStatus {
		return domainerrors.ErrApplicationDecided
	}
	s.applications[item.ApplicationID] = item
	return nil
}

func (s *Store) HasPendingApplication(_ context.Context, campaignID, channelID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.applications {
		if item.CampaignID == strings.TrimSpace(campaignID) &&
			item.ChannelID == strings.TrimSpace(channelID) &&
			item.Status == entities.ApplicationStatusPending {
			return true, nil
		}
	}
	return false, nil
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

func sortApplications(items []entities.CampaignApplication) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
