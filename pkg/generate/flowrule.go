package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlowRule is the structured rule shape used by the exploratory variant:
// a one-shot, best-effort decode of model output, not a steady-state
// contract of the verification loop.
type FlowRule struct {
	SwitchID   string `json:"switch_id"`
	MatchSrcIP string `json:"match_src_ip"`
	MatchDstIP string `json:"match_dst_ip"`
	Action     string `json:"action"`
}

// DecodeFlowRule strips code fences from raw model output and decodes the
// remaining text as a FlowRule.
func DecodeFlowRule(raw string) (FlowRule, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var rule FlowRule
	if err := json.Unmarshal([]byte(cleaned), &rule); err != nil {
		return FlowRule{}, fmt.Errorf("generate: decode flow rule: %w", err)
	}
	return rule, nil
}
