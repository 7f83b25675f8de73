package bundle

import (
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/esbundle/internal/config"
)

// normalize turns the input specification into a canonical entry-name→path
// map. List-style inputs get names derived from their base filename, with
// numeric suffixes resolving collisions in supply order (foo, foo0, foo1, …).
//
// The second return value reports whether any list input's own .mjs extension
// implies module output for the whole build. It is only inferred for the esm
// format when no explicit mjs option was supplied; map-style inputs never
// infer.
func normalize(in Inputs, format config.Format, mjsExplicit bool) (map[string]string, bool) {
	if in.Entries != nil {
		return in.Entries, false
	}
	if len(in.Paths) == 0 {
		return nil, false
	}

	entries := make(map[string]string, len(in.Paths))
	inferredMJS := false
	for _, p := range in.Paths {
		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		unique := name
		for i := 0; ; i++ {
			if _, taken := entries[unique]; !taken {
				break
			}
			unique = name + strconv.Itoa(i)
		}
		entries[unique] = p

		if format == config.FormatESM && !mjsExplicit && strings.HasSuffix(p, ".mjs") {
			inferredMJS = true
		}
	}
	return entries, inferredMJS
}
