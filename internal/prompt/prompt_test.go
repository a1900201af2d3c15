package prompt

import (
	"strings"
	"testing"

	"github.com/navigator-ai/navcore/internal/agent"
)

func TestSystemPrompt_Shape(t *testing.T) {
	for _, want := range []string{"element_id", "current_state", "is_done", "E1, E2"} {
		if !strings.Contains(SystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildUserMessage_Minimal(t *testing.T) {
	msg := BuildUserMessage("buy socks", "https://shop.example", "[E1]<button Buy/>", nil, "")

	if !strings.HasPrefix(msg, "Task: buy socks\n\n") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "Current URL: https://shop.example") {
		t.Errorf("missing url: %q", msg)
	}
	if !strings.Contains(msg, "[E1]<button Buy/>") {
		t.Errorf("missing page content: %q", msg)
	}
	if strings.Contains(msg, "Previous actions") || strings.Contains(msg, "Action result") {
		t.Errorf("unexpected optional sections: %q", msg)
	}
}

func TestBuildUserMessage_History(t *testing.T) {
	history := []agent.HistoryEntry{
		{URL: "https://shop.example", Actions: []agent.Action{
			{Type: "click", ElementID: "E1"},
			{Type: "input", ElementID: "E2", Text: "socks"},
		}},
		{Actions: []agent.Action{
			{Type: "scroll", Amount: 500},
			{Type: "url", URL: "https://shop.example/cart"},
		}},
	}

	msg := BuildUserMessage("buy socks", "https://shop.example/cart", "summary", history, "clicked ok")

	for _, want := range []string{
		"Previous actions:",
		"Step 1: URL: https://shop.example",
		"  - CLICK element E1",
		"  - INPUT element E2 with text: 'socks'",
		"Step 2: URL: unknown",
		"  - SCROLL by 500 pixels",
		"  - URL to URL: https://shop.example/cart",
		"Action result: clicked ok",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildUserMessage_NoTask(t *testing.T) {
	msg := BuildUserMessage("", "https://x.example", "content", nil, "")
	if strings.Contains(msg, "Task:") {
		t.Errorf("empty task should be omitted: %q", msg)
	}
	if !strings.HasPrefix(msg, "Current URL: https://x.example") {
		t.Errorf("message = %q", msg)
	}
}
