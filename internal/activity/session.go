// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package activity

import (
	"context"
	"sync"
	"time"
)

// Session tracks one login session of a user and supplies the start time
// for rate computation. Recorded events are forwarded to an optional Ledger.
type Session struct {
	UserID    string
	Token     string
	LoginTime time.Time

	ledger Ledger

	mu           sync.RWMutex
	lastActivity time.Time
	events       []Event
}

// NewSession starts a session at loginTime. ledger may be nil.
func NewSession(userID, token string, loginTime time.Time, ledger Ledger) *Session {
	return &Session{
		UserID:       userID,
		Token:        token,
		LoginTime:    loginTime,
		ledger:       ledger,
		lastActivity: loginTime,
	}
}

// RecordActivity records an event at ts and advances the last activity time.
func (s *Session) RecordActivity(ctx context.Context, eventType EventType, contentID string, ts time.Time) error {
	ev := Event{
		UserID:    s.UserID,
		SessionID: s.Token,
		Type:      eventType,
		ContentID: contentID,
		Timestamp: ts,
	}
	if err := ev.Validate(); err != nil {
		return err
	}
	if s.ledger != nil {
		if err := s.ledger.Record(ctx, &ev); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.lastActivity = ts
	return nil
}

// LastActivity returns the timestamp of the most recent event, or LoginTime.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// CountsSince counts session events with ts >= since.
func (s *Session) CountsSince(since time.Time) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	for i := range s.events {
		if !s.events[i].Timestamp.Before(since) {
			c.Add(s.events[i].Type)
		}
	}
	return c
}

// TotalCounts counts every event since login.
func (s *Session) TotalCounts() Counts {
	return s.CountsSince(s.LoginTime)
}

// DurationMinutes is the time from login to the last activity, in minutes.
func (s *Session) DurationMinutes() float64 {
	return s.LastActivity().Sub(s.LoginTime).Minutes()
}

// Window returns the whole session as a single measurement window.
func (s *Session) Window() Window {
	return Window{Counts: s.TotalCounts(), DurationMinutes: s.DurationMinutes()}
}
