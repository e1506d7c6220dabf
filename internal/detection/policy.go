// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import "errors"

// ErrUnknownLevel is carried by a Decision for a level outside A, B and C.
var ErrUnknownLevel = errors.New("unknown bot level")

// Action is the enforcement action for a level.
type Action string

// Enforcement actions.
const (
	ActionBlock        Action = "block"
	ActionFlagForAudit Action = "flag_for_audit"
	ActionAllow        Action = "allow"
	ActionNone         Action = "none"
)

// Decision is the policy outcome for one classified user.
type Decision struct {
	UserID string   `json:"user_id"`
	Level  BotLevel `json:"level"`
	Action Action   `json:"action"`

	// PayoutEligible is true only for level C.
	PayoutEligible bool `json:"payout_eligible"`

	// PayoutHeld is true for level B: payout waits for the manual audit.
	PayoutHeld bool `json:"payout_held"`

	Description string `json:"description"`

	// Err is ErrUnknownLevel for an out-of-range level, nil otherwise.
	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// Decide maps a level to its enforcement action. It never panics; a level
// outside A, B and C produces a Decision carrying ErrUnknownLevel.
func Decide(userID string, level BotLevel) Decision {
	d := Decision{UserID: userID, Level: level}

	switch level {
	case LevelA:
		d.Action = ActionBlock
		d.Description = "confirmed bot activity: account blocked, payout cancelled"
	case LevelB:
		d.Action = ActionFlagForAudit
		d.PayoutHeld = true
		d.Description = "suspicious activity: warning sent, queued for manual audit, payout withheld pending review"
	case LevelC:
		d.Action = ActionAllow
		d.PayoutEligible = true
		d.Description = "activity accepted as valid: payout proceeds"
	default:
		d.Action = ActionNone
		d.Description = "unknown level"
		d.Err = ErrUnknownLevel
		d.ErrorMessage = ErrUnknownLevel.Error()
	}
	return d
}
