package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snakeladder/models"
)

// subscriberBuffer is how many undelivered updates a subscriber may hold
// before its oldest ones are dropped.
const subscriberBuffer = 10

// Hub fans game updates out to realtime subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string][]*models.GameSubscriber
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subscribers: make(map[string][]*models.GameSubscriber),
		log:         log,
	}
}

// CreateGameSubscriber creates and registers a new subscriber for a game
func (h *Hub) CreateGameSubscriber(gameID string, ctx context.Context) *models.GameSubscriber {
	subscriber := &models.GameSubscriber{
		ID:      uuid.NewString(),
		GameID:  gameID,
		Channel: make(chan models.GameEvent, subscriberBuffer),
		Context: ctx,
	}

	h.mu.Lock()
	h.subscribers[gameID] = append(h.subscribers[gameID], subscriber)
	count := len(h.subscribers[gameID])
	h.mu.Unlock()

	h.log.Debug("subscriber joined",
		zap.String("game_id", gameID),
		zap.String("subscriber_id", subscriber.ID),
		zap.Int("subscribers", count),
	)
	return subscriber
}

// RemoveGameSubscriber removes a subscriber and closes its channel. Removing
// a subscriber twice is a no-op.
func (h *Hub) RemoveGameSubscriber(subscriber *models.GameSubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(subscriber)
}

func (h *Hub) removeLocked(subscriber *models.GameSubscriber) {
	subscribers, exists := h.subscribers[subscriber.GameID]
	if !exists {
		return
	}

	for i, sub := range subscribers {
		if sub.ID == subscriber.ID {
			h.subscribers[subscriber.GameID] = append(subscribers[:i], subscribers[i+1:]...)
			close(sub.Channel)
			h.log.Debug("subscriber left",
				zap.String("game_id", sub.GameID),
				zap.String("subscriber_id", sub.ID),
			)
			break
		}
	}

	if len(h.subscribers[subscriber.GameID]) == 0 {
		delete(h.subscribers, subscriber.GameID)
	}
}

// BroadcastGameEvent sends an event to all subscribers of a game. It never
// blocks: a subscriber with a full buffer loses its oldest queued event to
// make room, and a subscriber whose context is done is removed.
func (h *Hub) BroadcastGameEvent(gameID string, event models.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers := append([]*models.GameSubscriber(nil), h.subscribers[gameID]...)
	for _, subscriber := range subscribers {
		if subscriber.Context.Err() != nil {
			h.removeLocked(subscriber)
			continue
		}
		h.deliverLocked(subscriber, event)
	}
}

// deliverLocked queues event for subscriber. Every event carries the full
// state, so when the buffer is full the oldest one is discarded. Only the
// hub sends, and it holds h.mu, so the retry cannot find the buffer full.
func (h *Hub) deliverLocked(subscriber *models.GameSubscriber, event models.GameEvent) {
	select {
	case subscriber.Channel <- event:
		return
	default:
	}

	select {
	case stale := <-subscriber.Channel:
		h.log.Warn("subscriber buffer full, dropping oldest update",
			zap.String("game_id", subscriber.GameID),
			zap.String("subscriber_id", subscriber.ID),
			zap.Uint64("dropped_version", stale.Data.Version),
			zap.Uint64("version", event.Data.Version),
		)
	default:
	}

	select {
	case subscriber.Channel <- event:
	default:
	}
}

// Publish broadcasts snap as a gameUpdated event. Its signature matches
// game.Game.Subscribe.
func (h *Hub) Publish(snap models.Snapshot) {
	h.BroadcastGameEvent(snap.GameID, models.GameEvent{
		Type:   models.EventGameUpdated,
		GameID: snap.GameID,
		Data:   snap,
	})
}

// SubscriberCount returns how many subscribers a game has.
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[gameID])
}
