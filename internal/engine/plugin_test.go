package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackageName_Variants(t *testing.T) {
	require.Equal(t, "react", packageName("react"))
	require.Equal(t, "react", packageName("react/jsx-runtime"))
	require.Equal(t, "@org/pkg", packageName("@org/pkg"))
	require.Equal(t, "@org/pkg", packageName("@org/pkg/deep/path"))
}

func TestExternalSet_ManifestDependenciesExternalizedByDefault(t *testing.T) {
	project := t.TempDir()
	manifest := `{"name":"demo","dependencies":{"lodash":"^4"},"peerDependencies":{"react":">=18"}}`
	require.NoError(t, os.WriteFile(filepath.Join(project, "package.json"), []byte(manifest), 0o644))

	set := externalSet(PluginConfig{ProjectPath: project, Externals: []string{"extra"}})

	require.True(t, set["lodash"])
	require.True(t, set["react"])
	require.True(t, set["extra"])
}

func TestExternalSet_InlineDepsSkipsManifest(t *testing.T) {
	project := t.TempDir()
	manifest := `{"name":"demo","dependencies":{"lodash":"^4"}}`
	require.NoError(t, os.WriteFile(filepath.Join(project, "package.json"), []byte(manifest), 0o644))

	set := externalSet(PluginConfig{ProjectPath: project, InlineDeps: true, Externals: []string{"extra"}})

	require.False(t, set["lodash"])
	require.True(t, set["extra"])
}

func TestExternalSet_NoManifest_UsesExplicitListOnly(t *testing.T) {
	set := externalSet(PluginConfig{ProjectPath: t.TempDir(), Externals: []string{"only"}})

	require.True(t, set["only"])
	require.Len(t, set, 1)
}
