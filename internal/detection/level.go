// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"fmt"
	"strings"
)

// BotLevel is the classification of a user's averaged activity rate.
// The zero value is not a level; only LevelA, LevelB and LevelC are produced
// by Classify.
type BotLevel uint8

const (
	// LevelUnknown is the zero value and never returned by Classify.
	LevelUnknown BotLevel = iota
	// LevelA is confirmed bot activity.
	LevelA
	// LevelB is suspicious activity.
	LevelB
	// LevelC is valid activity.
	LevelC
)

// String returns "A", "B", "C" or "unknown".
func (l BotLevel) String() string {
	switch l {
	case LevelA:
		return "A"
	case LevelB:
		return "B"
	case LevelC:
		return "C"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of A, B or C.
func (l BotLevel) Valid() bool {
	return l == LevelA || l == LevelB || l == LevelC
}

// Label is a human readable name for the level.
func (l BotLevel) Label() string {
	switch l {
	case LevelA:
		return "confirmed bot"
	case LevelB:
		return "suspicious"
	case LevelC:
		return "valid"
	default:
		return "unknown"
	}
}

// ParseBotLevel parses "A", "B" or "C" (case-insensitive).
func ParseBotLevel(s string) (BotLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return LevelA, nil
	case "B":
		return LevelB, nil
	case "C":
		return LevelC, nil
	default:
		return LevelUnknown, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l BotLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *BotLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseBotLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
