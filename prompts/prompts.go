package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

// Embedded prompt files

//go:embed system.txt
var system string

//go:embed roi_request.txt
var roiRequest string

// System returns the system prompt shared by every upstream call.
func System() string { return strings.TrimSpace(system) }

// ROIAnalysis builds the user message for a ROI calculation.
func ROIAnalysis(budget, employees, duration string, files []string) string {
	docs := "- No supporting documents provided"
	if len(files) > 0 {
		docs = "- Supporting Documents: " + strings.Join(files, ", ")
	}
	return fmt.Sprintf(strings.TrimRight(roiRequest, "\n"), budget, employees, duration, docs)
}
