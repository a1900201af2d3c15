// Package prompt assembles the system and user messages sent to the
// planning model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/navigator-ai/navcore/internal/agent"
)

// SystemPrompt instructs the model to plan page actions against the
// short element identifiers (E1, E2, ...) from the page description.
const SystemPrompt = `You are a helpful assistant that helps users interact with web pages.
You will receive:
    1. A description of the user's task.
    2. The current URL of the web page.
    3. A concise description of interactive elements on the page with unique element IDs (E1, E2, etc.).
    4. A history of actions that have been performed previously, including URLs visited and actions taken.
Your task is to generate a JSON response containing a list of actions to perform to complete the user's task.

IMPORTANT: Elements are identified by unique IDs in the format E1, E2, etc. These IDs map to the actual elements
on the page. In your response, use these IDs to refer to elements you want to interact with.
Never tell done until the task is completed and you receive it in the previous goal evaluation.
**ALWAYS** respond with valid JSON in this exact format:
` + "```json" + `
{
  "current_state": {
        "page_summary": "Quick detailed summary of new information from the current page which is not yet in the task history memory. Be specific with details which are important for the task. This is not on the meta level, but should be facts. If all the information is already in the task history memory, leave this empty.",
        "evaluation_previous_goal": "Success|Failed|Unknown - Analyze the current elements and the image to check if the previous goals/actions are successful like intended by the task. Ignore the action result. The website is the ground truth. Also mention if something unexpected happened like new suggestions in an input field. Shortly state why/why not",
        "next_goal": "What needs to be done with the next actions"
    },
  "actions": [
    {
      "type": "ACTION_TYPE (click|input|scroll|url)",
      "element_id": "E1",  // Use element_id from the page description
      "text": "TEXT_TO_INPUT",  // Only for 'input' actions
      "amount": NUMBER,  // Only for 'scroll' actions (pixels)
      "url": "URL"  // Only for 'url' actions
    }
  ],
  "is_done": true/false
}` + "```"

// BuildUserMessage composes the per-step user message: the task, the
// current URL, the compacted page description, prior steps, and the
// result of the last executed action when the caller has one.
func BuildUserMessage(task, url, domContent string, history []agent.HistoryEntry, result string) string {
	var b strings.Builder

	if task != "" {
		fmt.Fprintf(&b, "Task: %s\n\n", task)
	}
	fmt.Fprintf(&b, "Current URL: %s\n\n%s\n", url, domContent)

	if len(history) > 0 {
		b.WriteString("\nPrevious actions:\n")
		for i, step := range history {
			stepURL := step.URL
			if stepURL == "" {
				stepURL = "unknown"
			}
			fmt.Fprintf(&b, "Step %d: URL: %s\n", i+1, stepURL)
			for _, action := range step.Actions {
				fmt.Fprintf(&b, "  - %s", strings.ToUpper(action.Type))
				switch {
				case action.ElementID != "":
					fmt.Fprintf(&b, " element %s", action.ElementID)
				case action.XPathRef != "":
					fmt.Fprintf(&b, " element with ref: %s", action.XPathRef)
				case action.Selector != "":
					fmt.Fprintf(&b, " element with selector: %s", action.Selector)
				}
				if action.Text != "" {
					fmt.Fprintf(&b, " with text: '%s'", action.Text)
				}
				if action.URL != "" {
					fmt.Fprintf(&b, " to URL: %s", action.URL)
				}
				if action.Amount != 0 {
					fmt.Fprintf(&b, " by %d pixels", action.Amount)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if result != "" {
		fmt.Fprintf(&b, "\nAction result: %s", result)
	}

	return b.String()
}
