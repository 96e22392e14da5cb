package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGridLoaded     EventType = "grid_loaded"
	EventGridCreated    EventType = "grid_created"
	EventLoadFallback   EventType = "load_fallback"
	EventCellUpdated    EventType = "cell_updated"
	EventUpdateRejected EventType = "update_rejected"
	EventStoreCall      EventType = "store_call"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GridEvent describes a whole-grid load.
type GridEvent struct {
	EventBase
	Cells int   `json:"cells"`
	Err   error `json:"-"`
}

// CellEvent describes an accepted or rejected single-cell update.
type CellEvent struct {
	EventBase
	CellID int    `json:"cell_id"`
	Color  string `json:"color,omitempty"`
	Err    error  `json:"-"`
}

// StoreEvent describes one call into the durable store.
type StoreEvent struct {
	EventBase
	Op       string        `json:"op"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for Grid Store observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnLoad      func(context.Context, *GridEvent)
	OnFallback  func(context.Context, *GridEvent)
	OnUpdate    func(context.Context, *CellEvent)
	OnReject    func(context.Context, *CellEvent)
	OnStoreCall func(context.Context, *StoreEvent)
}
