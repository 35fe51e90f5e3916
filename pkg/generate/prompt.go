package generate

import (
	"fmt"
	"strings"

	"github.com/cgast/netintent/pkg/topology"
)

// BuildSystemPrompt renders the fixed instruction context for rule
// generation: the addressing table, the expected one-line answer format,
// and worked examples.
func BuildSystemPrompt(topo topology.Topology) string {
	var b strings.Builder
	b.WriteString("You are an experienced Linux network engineer working in a network testbed.\n\n")
	b.WriteString("Your job is to translate high-level user intents into a SINGLE iptables command\n")
	b.WriteString("that SHOULD implement the requested behavior on the source host.\n\n")
	b.WriteString("Environment:\n")
	b.WriteString(topo.Summary())
	b.WriteString("\n- A single switch connects all hosts.\n")
	b.WriteString("- The iptables command will be executed on the SOURCE host's shell.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("- Return EXACTLY ONE iptables command.\n")
	b.WriteString("- Do NOT include explanations, comments, prompts, or code fences.\n")
	b.WriteString("- You MAY use OUTPUT, INPUT, or FORWARD chains, or interface-based rules.\n")
	b.WriteString("- Use normal iptables syntax that would run on a Linux host.\n\n")
	b.WriteString("Examples:\n")
	b.WriteString("User intent: \"Block traffic from h1 to h2\"\n")
	b.WriteString("Possible answer: iptables -I OUTPUT -d 10.0.0.2 -j DROP\n\n")
	b.WriteString("User intent: \"Block h1 from reaching h3\"\n")
	b.WriteString("Possible answer: iptables -I OUTPUT -d 10.0.0.3 -j DROP\n")
	return b.String()
}

// buildUserMessage renders the per-attempt request. When feedback is
// present, the message states the prior failure and asks for a different
// rule.
func buildUserMessage(intent, feedback string) string {
	if feedback == "" {
		return fmt.Sprintf("User intent: %s", intent)
	}
	return fmt.Sprintf(
		"User intent: %s\n\nThe previous command FAILED in testing. Details: %s\nGenerate a different iptables command that might work better.",
		intent, feedback,
	)
}

// buildFlowRulePrompt renders the exploratory one-shot prompt asking for a
// structured JSON rule instead of an executable command.
func buildFlowRulePrompt(topo topology.Topology, intent string) string {
	return fmt.Sprintf(`You are an SDN rule generator.

Here is the network topology:
%s

User intent: %q

Generate an SDN configuration in JSON with:
- switch_id
- match_src_ip
- match_dst_ip
- action (drop or allow)
Only output the JSON, nothing else.
`, topo.Summary(), intent)
}
