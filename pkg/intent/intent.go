// Package intent holds the closed-loop controller that turns one
// natural-language policy intent into a verified filtering rule: generate a
// candidate, measure, deploy, measure again, classify, and retry with
// feedback until the intent is satisfied or the attempt budget runs out.
package intent

import "strings"

// Intent is a natural-language policy statement between two named
// endpoints. It is created once per test case and never mutated.
type Intent struct {
	Text   string `yaml:"intent" json:"intent"`
	Source string `yaml:"source" json:"source"`
	Dest   string `yaml:"dest" json:"dest"`
}

// Result records the outcome of processing one intent. Command is empty
// when no attempt succeeded.
type Result struct {
	Intent   Intent `json:"intent"`
	Success  bool   `json:"success"`
	Command  string `json:"command,omitempty"`
	Attempts int    `json:"attempts"`
}

// WantsBlock reports whether the intent asks for traffic to be blocked.
func WantsBlock(text string) bool {
	return strings.Contains(strings.ToLower(text), "block")
}

// Satisfied is the success predicate: block-type intents require 100% loss
// after deployment, everything else requires 0%.
func Satisfied(text string, postLossPercent int) bool {
	if WantsBlock(text) {
		return postLossPercent == 100
	}
	return postLossPercent == 0
}
