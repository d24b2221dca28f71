// Package reportfs persists the timestamped JSON artifacts every script
// leaves behind: run reports, dedup plans, pre-deletion backups, schema
// checks. Write-once files for human review; nothing reads them back.
package reportfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func Write(dir, prefix string, payload interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir %s: %w", dir, err)
	}

	name := fmt.Sprintf("%s-%s.json", prefix, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}
