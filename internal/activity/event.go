// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package activity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventType is the kind of engagement a user performed.
type EventType string

// Engagement event types. The set is closed.
const (
	EventView    EventType = "view"
	EventLike    EventType = "like"
	EventComment EventType = "comment"
)

var (
	// ErrUnknownEventType is returned for event types outside view/like/comment.
	ErrUnknownEventType = errors.New("unknown activity event type")

	// ErrMissingUserID is returned when an event has no user.
	ErrMissingUserID = errors.New("activity event requires a user id")

	// ErrMissingTimestamp is returned when an event has a zero timestamp.
	ErrMissingTimestamp = errors.New("activity event requires a timestamp")
)

// ParseEventType parses a case-insensitive event type.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(strings.ToLower(strings.TrimSpace(s))); t {
	case EventView, EventLike, EventComment:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventView, EventLike, EventComment:
		return true
	}
	return false
}

// Event is a single recorded engagement. Events are immutable once recorded.
type Event struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id,omitempty"`
	Type      EventType `json:"type"`
	ContentID string    `json:"content_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks that the event can be recorded.
func (e *Event) Validate() error {
	if e.UserID == "" {
		return ErrMissingUserID
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
	if e.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}

// Counts is the number of each engagement type in some interval.
type Counts struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// Add increments the counter for t. Unknown types are ignored.
func (c *Counts) Add(t EventType) {
	switch t {
	case EventView:
		c.Views++
	case EventLike:
		c.Likes++
	case EventComment:
		c.Comments++
	}
}

// Total returns views + likes + comments.
func (c Counts) Total() int64 {
	return c.Views + c.Likes + c.Comments
}
