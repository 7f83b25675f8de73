package engine

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/esbundle/internal/config"
)

func TestBuildOptions_MapsEntriesDeterministically(t *testing.T) {
	req := Request{
		Entries: map[string]string{
			"zeta":  "src/zeta.js",
			"alpha": "src/alpha.js",
		},
		OutDir: "dist",
		OutExt: ".js",
		Format: config.FormatESM,
	}

	opts, err := buildOptions(req)
	require.NoError(t, err)
	require.Len(t, opts.EntryPointsAdvanced, 2)
	require.Equal(t, "alpha", opts.EntryPointsAdvanced[0].OutputPath)
	require.Equal(t, "src/alpha.js", opts.EntryPointsAdvanced[0].InputPath)
	require.Equal(t, "zeta", opts.EntryPointsAdvanced[1].OutputPath)
	require.True(t, opts.Bundle)
	require.True(t, opts.Write)
	require.True(t, opts.Metafile)
	require.Equal(t, "chunk-[hash]", opts.ChunkNames)
	require.Equal(t, api.LogLevelSilent, opts.LogLevel)
}

func TestBuildOptions_MJSExtension_SetsOutExtension(t *testing.T) {
	req := Request{
		Entries: map[string]string{"main": "src/main.js"},
		OutExt:  ".mjs",
		Format:  config.FormatESM,
	}

	opts, err := buildOptions(req)
	require.NoError(t, err)
	require.Equal(t, ".mjs", opts.OutExtension[".js"])
}

func TestBuildOptions_JSExtension_LeavesOutExtensionUnset(t *testing.T) {
	req := Request{
		Entries: map[string]string{"main": "src/main.js"},
		OutExt:  ".js",
		Format:  config.FormatCJS,
	}

	opts, err := buildOptions(req)
	require.NoError(t, err)
	require.Empty(t, opts.OutExtension)
}

func TestBuildOptions_SplittingOnlyForESM(t *testing.T) {
	esm, err := buildOptions(Request{Entries: map[string]string{"m": "m.js"}, Format: config.FormatESM})
	require.NoError(t, err)
	require.True(t, esm.Splitting)

	cjs, err := buildOptions(Request{Entries: map[string]string{"m": "m.js"}, Format: config.FormatCJS})
	require.NoError(t, err)
	require.False(t, cjs.Splitting)
}

func TestBuildOptions_EnvBecomesProcessEnvDefines(t *testing.T) {
	req := Request{
		Entries: map[string]string{"main": "src/main.js"},
		Format:  config.FormatESM,
		Plugin:  PluginConfig{Env: map[string]string{"NODE_ENV": "production"}},
	}

	opts, err := buildOptions(req)
	require.NoError(t, err)
	require.Equal(t, `"production"`, opts.Define["process.env.NODE_ENV"])
}

func TestBuildOptions_BannerAppliesToJS(t *testing.T) {
	req := Request{
		Entries: map[string]string{"main": "src/main.js"},
		Format:  config.FormatESM,
		Banner:  "/* hi */",
	}

	opts, err := buildOptions(req)
	require.NoError(t, err)
	require.Equal(t, "/* hi */", opts.Banner["js"])
}

func TestFormatFor_SupportedFormats(t *testing.T) {
	cases := map[config.Format]api.Format{
		config.FormatESM:  api.FormatESModule,
		config.FormatCJS:  api.FormatCommonJS,
		config.FormatIIFE: api.FormatIIFE,
	}
	for in, want := range cases {
		got, err := formatFor(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestFormatFor_UnsupportedFormats_ReturnError(t *testing.T) {
	for _, f := range []config.Format{config.FormatAMD, config.FormatSystem, config.FormatUMD} {
		_, err := formatFor(f)
		require.Error(t, err, "format %s", f)
	}
}

func TestTargetFor_KnownAndUnknownTargets(t *testing.T) {
	got, err := targetFor("es2020")
	require.NoError(t, err)
	require.Equal(t, api.ES2020, got)

	got, err = targetFor("")
	require.NoError(t, err)
	require.Equal(t, api.ESNext, got)

	_, err = targetFor("es1999")
	require.Error(t, err)
}
