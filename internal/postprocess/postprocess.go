// Package postprocess strips model reasoning out of generated text.
//
// Reasoning-capable models served through OpenRouter or Ollama may wrap
// their chain of thought in tags before the answer. Only the answer is a
// translation.
package postprocess

import (
	"regexp"
	"strings"
)

// reasoningBlockRe matches complete <think>…</think> style blocks. RE2 has no
// backreferences, so every tag pair is spelled out.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedReasoningRe matches an opened tag whose closing tag never came
// (the model hit its token limit mid-thought).
var truncatedReasoningRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

// orphanCloseRe matches everything up to a closing tag with no opener, which
// some chat templates produce by pre-filling the opening tag.
var orphanCloseRe = regexp.MustCompile(
	`(?is)^.*?(?:</thinking>|</think>|</reasoning>|</reflection>)`,
)

// StripReasoning removes reasoning blocks and returns the trimmed remainder.
func StripReasoning(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = truncatedReasoningRe.ReplaceAllString(text, "")
	text = orphanCloseRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
