package notification

import (
	"fmt"
	"sync"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
)

type EventType string

const (
	EventOrderDisputed EventType = "order_disputed"
)

type Event struct {
	Type      EventType `json:"type"`
	OrderID   int64     `json:"order_id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Service fans events out to in-process subscribers (the messaging
// collaborator's bridge). Delivery is fire-and-forget: a slow subscriber
// loses events rather than blocking the lifecycle.
type Service struct {
	mu          sync.RWMutex
	subscribers []chan Event
	logger      *logging.Logger
}

func NewService(logger *logging.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Service) Notify(event Event) {
	event.CreatedAt = time.Now().UTC()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			s.logger.Warn(fmt.Sprintf("dropping %s notification, subscriber buffer full", event.Type))
		}
	}
}

// OrderDisputed satisfies the order lifecycle's notifier hook.
func (s *Service) OrderDisputed(orderID int64, raisedBy int64) {
	s.Notify(Event{
		Type:    EventOrderDisputed,
		OrderID: orderID,
		UserID:  raisedBy,
		Message: fmt.Sprintf("order %d entered dispute", orderID),
	})
}
