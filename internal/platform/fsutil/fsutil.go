// Package fsutil writes downloaded resources to the local filesystem.
package fsutil

import (
	"fmt"
	"os"
)

// tempPattern names temp files created when no target is given.
const tempPattern = "cfyctx-*"

// Save writes data to target, truncating any existing content, and returns
// the path written. An empty target allocates a new temp file.
func Save(data []byte, target string) (string, error) {
	if target == "" {
		f, err := os.CreateTemp("", tempPattern)
		if err != nil {
			return "", fmt.Errorf("creating temp file: %w", err)
		}

		target = f.Name()
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing temp file %s: %w", target, err)
		}
	}

	if err := os.WriteFile(target, data, 0o644); err != nil { //nolint:gosec // resources are not secrets
		return "", fmt.Errorf("writing %s: %w", target, err)
	}

	return target, nil
}
