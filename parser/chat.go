package parser

import "strings"

const timingPrefix = "timing:"

var validTimings = map[string]bool{
	"before": true,
	"during": true,
	"after":  true,
}

// SplitChatReply splits a chat completion reply into the answer text and the
// trailing timing tag. The reply must end with a line of the form
// "Timing: before|during|after"; anything else is a typed *ParseError.
func SplitChatReply(raw string) (answer, timing string, err error) {
	lines := strings.Split(raw, "\n")

	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 0 {
		return "", "", failure(raw, "empty response")
	}

	tagLine := normalizeLine(lines[last])
	if !strings.HasPrefix(strings.ToLower(tagLine), timingPrefix) {
		return "", "", failure(raw, "no trailing Timing line")
	}

	tag := strings.ToLower(strings.TrimSpace(tagLine[len(timingPrefix):]))
	if !validTimings[tag] {
		return "", "", failure(raw, "invalid timing tag %q", tag)
	}

	answer = strings.TrimSpace(strings.Join(lines[:last], "\n"))
	return answer, tag, nil
}
