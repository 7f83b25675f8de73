package bundle

import (
	"path/filepath"

	"git.home.luguber.info/inful/esbundle/internal/config"
	"git.home.luguber.info/inful/esbundle/internal/nodepkg"
)

const (
	extJS  = ".js"
	extMJS = ".mjs"
)

// boundaryResolver is the package-boundary resolution collaborator.
type boundaryResolver interface {
	FindBoundary(dir string) (string, bool)
	ReadManifest(boundaryDir string) (*nodepkg.Manifest, error)
}

// manifestResolver is the filesystem-backed boundaryResolver.
type manifestResolver struct{}

func (manifestResolver) FindBoundary(dir string) (string, bool) {
	return nodepkg.FindBoundary(dir)
}

func (manifestResolver) ReadManifest(boundaryDir string) (*nodepkg.Manifest, error) {
	return nodepkg.ReadManifest(boundaryDir)
}

// resolveExtension decides the single extension applied to every entry file
// in this build. Decision order, first match wins:
//
//  1. An explicit mjs option suppresses all inference: true means .mjs,
//     false means .js.
//  2. Non-esm formats always use .js.
//  3. A .mjs input filename already inferred .mjs for the whole build.
//  4. Otherwise inspect the output directory's package boundary: no boundary
//     keeps .js; a manifest without type "module" switches to .mjs with a
//     warning; type "module" keeps .js.
func (b *Builder) resolveExtension(opts config.Options, inferredMJS bool) (string, error) {
	if opts.MJS != nil {
		if *opts.MJS {
			return extMJS, nil
		}
		return extJS, nil
	}
	if opts.Format != config.FormatESM {
		return extJS, nil
	}
	if inferredMJS {
		return extMJS, nil
	}

	outDir := opts.Out
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(b.cwd, outDir)
	}
	boundary, ok := b.boundary.FindBoundary(outDir)
	if !ok {
		return extJS, nil
	}
	manifest, err := b.boundary.ReadManifest(boundary)
	if err != nil {
		return "", err
	}
	if manifest.IsModule() {
		return extJS, nil
	}

	manifestPath := nodepkg.ManifestPath(boundary)
	if rel, relErr := filepath.Rel(b.cwd, manifestPath); relErr == nil {
		manifestPath = rel
	}
	b.reporter.Warnf("Output directory is not inside a module-type package boundary (%s); entry files will use the %s extension.",
		filepath.ToSlash(manifestPath), extMJS)
	return extMJS, nil
}
