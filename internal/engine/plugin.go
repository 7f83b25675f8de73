package engine

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/esbundle/internal/config"
	"git.home.luguber.info/inful/esbundle/internal/nodepkg"
)

// globalsNamespace marks virtual modules that shim an external package to a
// global variable lookup.
const globalsNamespace = "esbundle-globals"

// bareImportFilter matches package specifiers (anything that is not a
// relative or absolute path).
const bareImportFilter = `^[^./]`

// resolvePlugin decides the fate of every bare import: shimmed to a global,
// marked external, or bundled. Which packages are external comes from the
// request's Externals list plus, unless InlineDeps is set, the project
// manifest's dependencies and peerDependencies.
func resolvePlugin(cfg PluginConfig, format config.Format, globals map[string]string) api.Plugin {
	externals := externalSet(cfg)

	return api.Plugin{
		Name: "esbundle-resolve",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: bareImportFilter},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					name := packageName(args.Path)
					if global, ok := globals[name]; ok && format != config.FormatESM {
						return api.OnResolveResult{
							Path:       args.Path,
							Namespace:  globalsNamespace,
							PluginData: global,
						}, nil
					}
					if externals[name] {
						return api.OnResolveResult{Path: args.Path, External: true}, nil
					}
					return api.OnResolveResult{}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: globalsNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					global, _ := args.PluginData.(string)
					contents := fmt.Sprintf("module.exports = globalThis[%q];", global)
					return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
				})
		},
	}
}

// externalSet collects the package names left unbundled for this request.
// A missing or unreadable project manifest just means no manifest-derived
// externals; the explicit list still applies.
func externalSet(cfg PluginConfig) map[string]bool {
	set := make(map[string]bool, len(cfg.Externals))
	for _, name := range cfg.Externals {
		set[name] = true
	}
	if cfg.InlineDeps {
		return set
	}
	boundary, ok := nodepkg.FindBoundary(cfg.ProjectPath)
	if !ok {
		return set
	}
	manifest, err := nodepkg.ReadManifest(boundary)
	if err != nil {
		return set
	}
	for name := range manifest.Dependencies {
		set[name] = true
	}
	for name := range manifest.PeerDependencies {
		set[name] = true
	}
	return set
}

// packageName extracts the npm package name from an import specifier,
// keeping scopes and dropping subpaths ("@org/pkg/sub" -> "@org/pkg").
func packageName(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
