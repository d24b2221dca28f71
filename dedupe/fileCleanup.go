package dedupe

import (
	"fmt"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/msgraph"
)

// fileKey pairs a case-folded trimmed name with the byte size. Two files
// agreeing on both are treated as the same document.
func fileKey(item msgraph.DriveItem) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(item.Name)), item.Size)
}

// PlanFileCleanup returns the pending items that also exist in the
// archive. The archive copy is authoritative, so every such pending file
// is deleted unconditionally; no completeness scoring applies to files.
// Folders are ignored on both sides.
func PlanFileCleanup(archive, pending []msgraph.DriveItem) []msgraph.DriveItem {
	archived := make(map[string]bool, len(archive))
	for _, item := range archive {
		if item.IsFolder() {
			continue
		}
		archived[fileKey(item)] = true
	}

	var doomed []msgraph.DriveItem
	for _, item := range pending {
		if item.IsFolder() {
			continue
		}
		if archived[fileKey(item)] {
			doomed = append(doomed, item)
		}
	}
	return doomed
}
