package nlp

import (
	"regexp"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// RemoveThinkTags strips <think> blocks emitted by reasoning models before
// any further parsing.
func RemoveThinkTags(input string) string {
	return thinkTagRe.ReplaceAllString(input, "")
}

// ExtractTag returns the trimmed content between <tag> and </tag>, or ""
// when either marker is missing.
func ExtractTag(response, tag string) string {
	open := "<" + tag + ">"
	close := "</" + tag + ">"
	start := strings.Index(response, open)
	if start == -1 {
		return ""
	}
	rest := response[start+len(open):]
	end := strings.Index(rest, close)
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// ExtractJSONFromResponse pulls a JSON payload out of an LLM response that
// may wrap it in markdown fences or prose, repairing minor syntax damage.
// Returns "" when no JSON-looking content is present.
func ExtractJSONFromResponse(response string) string {
	response = strings.TrimSpace(RemoveThinkTags(response))

	if strings.Contains(response, "```json") {
		start := strings.Index(response, "```json")
		end := strings.Index(response[start+7:], "```")
		if end != -1 {
			response = strings.TrimSpace(response[start+7 : start+7+end])
		}
	} else if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		if len(lines) > 2 {
			response = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}

	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return ""
	}

	repaired, err := jsonrepair.JSONRepair(response[jsonStart : jsonEnd+1])
	if err != nil {
		return ""
	}
	return repaired
}
