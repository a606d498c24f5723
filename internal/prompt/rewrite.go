package prompt

import "fmt"

// RewritePrompt asks the model to apply improvement suggestions to a draft.
func RewritePrompt(draft, suggestions string) string {
	return fmt.Sprintf(`Please improve the following draft based on the provided suggestions.

Original Draft:
%s

Improvement Suggestions:
%s`, draft, suggestions)
}
