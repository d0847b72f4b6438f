package utils

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidIDList = errors.New("invalid id list")

// ParseIDList accepts either a JSON array of UUID strings or a comma separated
// list. Blank entries are skipped and duplicates keep their first position.
func ParseIDList(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidIDList
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil, ErrInvalidIDList
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	seen := make(map[uuid.UUID]struct{}, len(parts))
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, ErrInvalidIDList
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, ErrInvalidIDList
	}
	return ids, nil
}
