package bundle

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/esbundle/internal/engine"
)

// printGraph prints one block per output chunk: the chunk's file name, the
// sorted list of chunks it imports (omitted when empty), then one line per
// constituent source module with forward-slash relative paths, followed by a
// blank separator line.
func (b *Builder) printGraph(result *engine.Result) {
	for _, chunk := range result.Chunks {
		header := b.reporter.Bold(path.Base(chunk.FileName))
		if len(chunk.Imports) > 0 {
			imports := append([]string(nil), chunk.Imports...)
			sort.Strings(imports)
			header += " imports " + strings.Join(imports, ", ")
		}
		b.reporter.Infof("%s", header)
		for _, module := range chunk.Modules {
			b.reporter.Infof("  %s", b.reporter.Highlight(filepath.ToSlash(module)))
		}
		b.reporter.Blank()
	}
}
