// Package events carries structured progress from the verification loop to
// presentation code. The controller is strictly sequential, so delivery is
// synchronous and in publish order.
package events

import "time"

// Type identifies the kind of event emitted by the loop.
type Type string

const (
	TypeRunStart      Type = "run.start"
	TypeIntentStart   Type = "intent.start"
	TypeAttemptStart  Type = "attempt.start"
	TypeRuleGenerated Type = "rule.generated"
	TypeRuleSkipped   Type = "rule.skipped"
	TypeProbeResult   Type = "probe.result"
	TypeRuleApplied   Type = "rule.applied"
	TypeAttemptResult Type = "attempt.result"
	TypeRulesReset    Type = "rules.reset"
	TypeIntentResult  Type = "intent.result"
	TypeRunSummary    Type = "run.summary"
)

// Probe stages reported by TypeProbeResult events.
const (
	StageBaseline = "baseline"
	StageVerify   = "verify"
)

// Event is a single progress record. Fields beyond Type and Timestamp are
// populated per event type.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Intent string `json:"intent,omitempty"`
	Source string `json:"source,omitempty"`
	Dest   string `json:"dest,omitempty"`

	Attempt     int    `json:"attempt,omitempty"`
	Attempts    int    `json:"attempts,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Stage       string `json:"stage,omitempty"`

	Command     string `json:"command,omitempty"`
	Output      string `json:"output,omitempty"`
	LossPercent int    `json:"loss_percent,omitempty"`
	Status      string `json:"status,omitempty"`
	Success     bool   `json:"success,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
	Err         string `json:"error,omitempty"`

	Total       int     `json:"total,omitempty"`
	Successes   int     `json:"successes,omitempty"`
	SuccessRate float64 `json:"success_rate,omitempty"`
}
