package rules

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/lib/pq"
)

// NormalizeRooms trims names and drops blanks and duplicates. Two names are the
// same room when their slugs match ("Main Space" and "main-space").
func NormalizeRooms(rooms []string) pq.StringArray {
	out := pq.StringArray{}
	seen := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		name := strings.TrimSpace(r)
		if name == "" {
			continue
		}
		key := slug.Make(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// RoomKey is the slug used to compare room names.
func RoomKey(room string) string {
	return slug.Make(strings.TrimSpace(room))
}
