package memory

import (
	"context"
	"fmt"
	"sync"

	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

// PostPublisher fakes channel posting: each publish allocates the next
// message id on the channel and returns a t.me-style link.
type PostPublisher struct {
	mu      sync.Mutex
	nextID  map[string]int
	posted  map[string]string // post link -> content
	deleted map[string]bool
}

func NewPostPublisher() *PostPublisher {
	return &PostPublisher{
		nextID:  make(map[string]int),
		posted:  make(map[string]string),
		deleted: make(map[string]bool),
	}
}

func (p *PostPublisher) Publish(_ context.Context, channel ports.ChannelRef, content string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID[channel.ChannelID]++
	link := fmt.Sprintf("https://t.me/%s/%d", channel.Username, p.nextID[channel.ChannelID])
	p.posted[link] = content
	return link, nil
}

// Delete marks a published post unreachable so verification tests can
// exercise the failure path.
func (p *PostPublisher) Delete(postLink string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted[postLink] = true
}

// VerifyPost reports whether the link was published here and not deleted,
// which makes the publisher double as the mock PostVerifier.
func (p *PostPublisher) VerifyPost(_ context.Context, _ ports.ChannelRef, postLink string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deleted[postLink] {
		return false, nil
	}
	_, exists := p.posted[postLink]
	return exists, nil
}
