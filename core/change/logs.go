// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package change

import (
	"encoding/json"
	"strings"
)

// ParseLogs splits an update log body into lines. Older servers send a JSON
// array of strings; newer ones send plain text.
func ParseLogs(body string) []string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var lines []string
		if err := json.Unmarshal([]byte(trimmed), &lines); err == nil {
			return lines
		}
	}
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines
}
