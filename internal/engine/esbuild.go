package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/esbundle/internal/config"
	"git.home.luguber.info/inful/esbundle/internal/errors"
)

// Esbuild is the esbuild-backed Engine implementation.
type Esbuild struct{}

// NewEsbuild returns the esbuild-backed engine.
func NewEsbuild() *Esbuild {
	return &Esbuild{}
}

// Bundle performs a one-shot in-process build and writes the output to disk.
// Engine warnings are suppressed; only errors surface, unmodified.
func (e *Esbuild) Bundle(_ context.Context, req Request) (*Result, error) {
	opts, err := buildOptions(req)
	if err != nil {
		return nil, err
	}
	result := api.Build(opts)
	if len(result.Errors) > 0 {
		return nil, engineError(result.Errors)
	}
	return resultFromMetafile(result.Metafile)
}

// buildOptions translates a Request into esbuild build options.
func buildOptions(req Request) (api.BuildOptions, error) {
	format, err := formatFor(req.Format)
	if err != nil {
		return api.BuildOptions{}, err
	}
	target, err := targetFor(req.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}

	// Entry order must be deterministic across runs.
	names := make([]string, 0, len(req.Entries))
	for name := range req.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]api.EntryPoint, 0, len(names))
	for _, name := range names {
		entries = append(entries, api.EntryPoint{
			InputPath:  req.Entries[name],
			OutputPath: name,
		})
	}

	sourcemap := api.SourceMapNone
	if req.Sourcemap {
		sourcemap = api.SourceMapLinked
	}

	opts := api.BuildOptions{
		EntryPointsAdvanced: entries,
		Outdir:              req.OutDir,
		Bundle:              true,
		Write:               true,
		Metafile:            true,
		Format:              format,
		Target:              target,
		Sourcemap:           sourcemap,
		ChunkNames:          "chunk-[hash]",
		Splitting:           req.Format == config.FormatESM,
		LogLevel:            api.LogLevelSilent,
		Plugins:             []api.Plugin{resolvePlugin(req.Plugin, req.Format, req.Globals)},
	}
	if req.OutExt != "" && req.OutExt != ".js" {
		opts.OutExtension = map[string]string{".js": req.OutExt}
	}
	if req.Banner != "" {
		opts.Banner = map[string]string{"js": req.Banner}
	}
	if len(req.Plugin.Env) > 0 {
		opts.Define = make(map[string]string, len(req.Plugin.Env))
		for key, value := range req.Plugin.Env {
			opts.Define["process.env."+key] = strconv.Quote(value)
		}
	}
	return opts, nil
}

func formatFor(f config.Format) (api.Format, error) {
	switch f {
	case config.FormatESM:
		return api.FormatESModule, nil
	case config.FormatCJS:
		return api.FormatCommonJS, nil
	case config.FormatIIFE:
		return api.FormatIIFE, nil
	default:
		return api.FormatDefault, errors.New(errors.CategoryBundle, errors.SeverityFatal,
			"output format is not supported by the esbuild engine").
			WithContext("format", string(f))
	}
}

func targetFor(target string) (api.Target, error) {
	switch strings.ToLower(target) {
	case "", "esnext":
		return api.ESNext, nil
	case "es5":
		return api.ES5, nil
	case "es6", "es2015":
		return api.ES2015, nil
	case "es2016":
		return api.ES2016, nil
	case "es2017":
		return api.ES2017, nil
	case "es2018":
		return api.ES2018, nil
	case "es2019":
		return api.ES2019, nil
	case "es2020":
		return api.ES2020, nil
	case "es2021":
		return api.ES2021, nil
	case "es2022":
		return api.ES2022, nil
	default:
		return api.ESNext, errors.New(errors.CategoryBundle, errors.SeverityFatal, "unknown syntax target").
			WithContext("target", target)
	}
}

// engineError folds esbuild messages into one error, formatted the way
// esbuild itself would print them.
func engineError(msgs []api.Message) error {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	return fmt.Errorf("bundling failed:\n%s", strings.Join(formatted, ""))
}
