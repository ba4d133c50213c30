package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sells-group/geoscene/internal/geojson"
)

// resolveID assigns the store key for an entity produced from node. Features
// keep their explicit id when it is free; a taken id gets a _2, _3, ... suffix
// so multi-geometry expansions never overwrite an earlier entity. Everything
// else gets a fresh uuid.
func (r *run) resolveID(node *geojson.Document) string {
	if node.Kind != geojson.KindFeature || !node.HasID {
		return uuid.NewString()
	}
	if !r.store.Exists(node.ID) {
		return node.ID
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", node.ID, i)
		if !r.store.Exists(candidate) {
			return candidate
		}
	}
}

// displayName picks a human-readable name from feature properties: "title",
// then "name", then the first property key ending in "name" (scanned in
// sorted order so the choice is deterministic).
func displayName(props map[string]any) string {
	if props == nil {
		return ""
	}
	if s, ok := props["title"].(string); ok && s != "" {
		return s
	}
	if s, ok := props["name"].(string); ok && s != "" {
		return s
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.HasSuffix(strings.ToLower(k), "name") {
			if s, ok := props[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
