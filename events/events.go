package events

import (
	"context"
	"sync"

	"raspadinha/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypePlayResolved     EventType = "play_resolved"
	EventTypeDepositCompleted EventType = "deposit_completed"
	EventTypeDepositExpired   EventType = "deposit_expired"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
	Simulated       bool
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// PlayResolvedEvent represents a settled scratch card play
type PlayResolvedEvent struct {
	UserID      string
	CardID      string
	Won         bool
	PrizeAmount int64
	Simulated   bool
}

func (e PlayResolvedEvent) Type() EventType {
	return EventTypePlayResolved
}

// DepositCompletedEvent represents a deposit credited after gateway confirmation
type DepositCompletedEvent struct {
	UserID        string
	DepositID     string
	CorrelationID string
	Amount        int64
}

func (e DepositCompletedEvent) Type() EventType {
	return EventTypeDepositCompleted
}

// DepositExpiredEvent represents a deposit charge that expired unpaid
type DepositExpiredEvent struct {
	UserID        string
	DepositID     string
	CorrelationID string
	Amount        int64
}

func (e DepositExpiredEvent) Type() EventType {
	return EventTypeDepositExpired
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events raised inside a unit of work until the
// transaction commits. Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context so they outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after rollback to drop any staged events.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
