package engine

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

// metafile mirrors the parts of esbuild's metafile JSON the pipeline reads.
type metafile struct {
	Inputs  map[string]metaInput  `json:"inputs"`
	Outputs map[string]metaOutput `json:"outputs"`
}

type metaInput struct {
	Bytes int `json:"bytes"`
}

type metaOutput struct {
	Imports    []metaImport        `json:"imports"`
	Inputs     map[string]struct{} `json:"inputs"`
	EntryPoint string              `json:"entryPoint"`
}

type metaImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external"`
}

// resultFromMetafile derives the chunk graph from a build's metafile. Source
// map files are not chunks and are skipped.
func resultFromMetafile(meta string) (*Result, error) {
	var m metafile
	if err := json.Unmarshal([]byte(meta), &m); err != nil {
		return nil, fmt.Errorf("parse build metafile: %w", err)
	}

	chunks := make([]Chunk, 0, len(m.Outputs))
	for file, out := range m.Outputs {
		if strings.HasSuffix(file, ".map") {
			continue
		}
		chunk := Chunk{
			FileName:   file,
			EntryPoint: out.EntryPoint,
		}
		for _, imp := range out.Imports {
			if imp.External {
				continue
			}
			chunk.Imports = append(chunk.Imports, path.Base(imp.Path))
		}
		for module := range out.Inputs {
			if strings.HasPrefix(module, globalsNamespace+":") {
				continue
			}
			chunk.Modules = append(chunk.Modules, module)
		}
		sort.Strings(chunk.Modules)
		chunks = append(chunks, chunk)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].FileName < chunks[j].FileName })
	return &Result{Chunks: chunks}, nil
}

// inputPaths returns the source modules recorded in a build's metafile,
// sorted. Watch mode uses these to know which files to observe.
func inputPaths(meta string) ([]string, error) {
	var m metafile
	if err := json.Unmarshal([]byte(meta), &m); err != nil {
		return nil, fmt.Errorf("parse build metafile: %w", err)
	}
	paths := make([]string, 0, len(m.Inputs))
	for p := range m.Inputs {
		// Virtual global-shim modules have no file to watch.
		if strings.HasPrefix(p, globalsNamespace+":") {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
