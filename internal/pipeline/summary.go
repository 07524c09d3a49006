package pipeline

import (
	"fmt"
	"strings"
)

// FormatSummary renders a run summary for terminal output.
func FormatSummary(sum Summary) string {
	var sb strings.Builder
	sb.WriteString("\n=== Dataset Summary ===\n")
	fmt.Fprintf(&sb, "Run: %s\n", sum.RunID)
	fmt.Fprintf(&sb, "Files loaded: %d", sum.Files-sum.SkippedFiles)
	if sum.SkippedFiles > 0 {
		fmt.Fprintf(&sb, " (%d skipped)", sum.SkippedFiles)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Records: %d\n", sum.Records)
	fmt.Fprintf(&sb, "Messages: %d\n", sum.Messages)
	fmt.Fprintf(&sb, "Segments: %d\n", sum.Segments)
	fmt.Fprintf(&sb, "Prompts: %d\n", sum.Prompts)
	if sum.DryRun {
		sb.WriteString("Mode: DRY RUN (nothing written)\n")
	} else {
		fmt.Fprintf(&sb, "Output: %s\n", sum.Output)
	}
	return sb.String()
}
