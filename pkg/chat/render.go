package chat

import (
	"fmt"
	"strings"

	"github.com/forkline/forkline/pkg/api"
)

// DishNamer resolves a dish id to a display name.
type DishNamer func(id int64) string

// Markdown renders the structured parts of an answer (follow-up questions,
// recommendations and the suggested combo) as markdown. The reply text is
// not included; it has already been streamed. It returns "" when there is
// nothing to show.
func Markdown(resp *api.AiResponse, name DishNamer) string {
	if resp == nil {
		return ""
	}
	if name == nil {
		name = func(id int64) string { return fmt.Sprintf("Dish #%d", id) }
	}

	var b strings.Builder

	if len(resp.Recommendations) > 0 {
		b.WriteString("### Recommended\n\n")
		for _, r := range resp.Recommendations {
			fmt.Fprintf(&b, "- **%s** (fit %.0f%%)", name(r.DishID), r.FitScore*100)
			if len(r.Reason) > 0 {
				fmt.Fprintf(&b, ": %s", strings.Join(r.Reason, "; "))
			}
			b.WriteString("\n")
			for _, w := range r.Warnings {
				fmt.Fprintf(&b, "  - ⚠ %s\n", w)
			}
		}
		b.WriteString("\n")
	}

	if c := resp.Combo; c != nil && c.Enabled && len(c.Items) > 0 {
		b.WriteString("### Combo\n\n")
		for _, it := range c.Items {
			fmt.Fprintf(&b, "- %d × %s\n", max(it.Qty, 1), name(it.DishID))
		}
		if c.TotalEstimate != nil {
			fmt.Fprintf(&b, "\nAbout ¥%.2f in total.", *c.TotalEstimate)
		}
		if c.Logic != "" {
			fmt.Fprintf(&b, " %s", c.Logic)
		}
		b.WriteString("\n\n")
	}

	if len(resp.Questions) > 0 {
		b.WriteString("### To narrow it down\n\n")
		for _, q := range resp.Questions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
