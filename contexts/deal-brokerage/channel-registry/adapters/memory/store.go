package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"adbroker/contexts/deal-brokerage/channel-registry/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/channel-registry/domain/errors"
	"adbroker/contexts/deal-brokerage/channel-registry/ports"
)

// Store is the in-memory registry. It is seeded at construction and not
// mutated afterwards, mirroring the read-only repository contract.
type Store struct {
	mu sync.RWMutex

	channels map[string]entities.Channel
	formats  map[string]entities.AdFormat
}

func NewStore(channels []entities.Channel, formats []entities.AdFormat) *Store {
	channelIndex := make(map[string]entities.Channel, len(channels))
	for _, item := range channels {
		channelIndex[item.ChannelID] = item
	}
	formatIndex := make(map[string]entities.AdFormat, len(formats))
	for _, item := range formats {
		formatIndex[item.AdFormatID] = item
	}
	return &Store{
		channels: channelIndex,
		formats:  formatIndex,
	}
}

func (s *Store) GetChannel(_ context.Context, channelID string) (entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, exists := s.channels[strings.TrimSpace(channelID)]
	if !exists {
		return entities.Channel{}, domainerrors.ErrChannelNotFound
	}
	return channel, nil
}

func (s *Store) ListChannels(_ context.Context, filter ports.ChannelFilter) ([]entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Channel, 0, len(s.channels))
	for _, channel := range s.channels {
		if filter.OwnerID != "" && channel.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && channel.Status != filter.Status {
			continue
		}
		items = append(items, channel)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubscriberCount > items[j].SubscriberCount
	})
	return items, nil
}

func (s *Store) GetAdFormat(_ context.Context, adFormatID string) (entities.AdFormat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	format, exists := s.formats[strings.TrimSpace(adFormatID)]
	if !exists {
		return entities.AdFormat{}, domainerrors.ErrAdFormatNotFound
	}
	return format, nil
}

func (s *Store) ListAdFormats(_ context.Context, channelID string) ([]entities.AdFormat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.AdFormat, 0)
	for _, format := range s.formats {
		if format.ChannelID == strings.TrimSpace(channelID) {
			items = append(items, format)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PriceTON.LessThan(items[j].PriceTON)
	})
	return items, nil
}
