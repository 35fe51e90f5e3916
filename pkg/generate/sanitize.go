package generate

import "strings"

// dialect tokens models emit as code-fence language tags.
var fenceDialects = map[string]bool{
	"bash":    true,
	"sh":      true,
	"shell":   true,
	"console": true,
}

// Sanitize strips the formatting artifacts a generation model may wrap
// around a rule: code fences, a shell-dialect tag adjacent to the fence,
// and surrounding quotes or whitespace. It is deterministic and never
// fails; the worst case is an empty string, which callers treat as "no
// usable rule".
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.Contains(s, "```") {
		parts := strings.Split(s, "```")
		if len(parts) >= 2 {
			s = parts[1]
		}
		s = strings.TrimSpace(s)
		// Drop a leading language tag, either on its own line or glued
		// to the fence ("```bash\n...").
		if line, rest, ok := strings.Cut(s, "\n"); ok && fenceDialects[strings.TrimSpace(line)] {
			s = rest
		} else if fields := strings.Fields(s); len(fields) > 1 && fenceDialects[fields[0]] {
			s = strings.TrimPrefix(s, fields[0])
		}
	}

	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}
