package intent

import "fmt"

// BuildFeedback converts a failed verification into the diagnostic sentence
// fed back into the next generation attempt. Only the most recent failure's
// feedback is carried forward; feedback is never accumulated.
func BuildFeedback(it Intent, measuredLossPercent int) string {
	if WantsBlock(it.Text) {
		return fmt.Sprintf(
			"Expected traffic to be fully blocked between %s and %s, but after applying the rule, measured %d%% packet loss.",
			it.Source, it.Dest, measuredLossPercent,
		)
	}
	return fmt.Sprintf(
		"Expected traffic to flow freely between %s and %s, but after applying the rule, measured %d%% packet loss.",
		it.Source, it.Dest, measuredLossPercent,
	)
}
