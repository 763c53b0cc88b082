package copied

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tracked = `// Copyright header.
//
// COPIED FROM: chromium/src/ui/views/widget.cc
// LAST SYNCHRONIZED: 4f2c1a9e

#include "widget.h"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_ParsesMarkers(t *testing.T) {
	path := writeFile(t, "widget.cc", tracked)

	info, err := FileResolver{}.Resolve(path, "")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "chromium/src/ui/views/widget.cc", info.CopiedFromPath)
	assert.Equal(t, "4f2c1a9e", info.LastSynchronized)
}

func TestResolve_NoMarkersMeansNoMetadata(t *testing.T) {
	path := writeFile(t, "plain.cc", "#include \"plain.h\"\n")

	info, err := FileResolver{}.Resolve(path, "")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestResolve_OneMarkerIsNotEnough(t *testing.T) {
	path := writeFile(t, "half.cc", "// COPIED FROM: a/b.cc\n")

	info, err := FileResolver{}.Resolve(path, "")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestResolve_MissingFile(t *testing.T) {
	_, err := FileResolver{}.Resolve(filepath.Join(t.TempDir(), "absent.cc"), "")
	assert.Error(t, err)
}

func TestResolve_NormalizesBackslashes(t *testing.T) {
	path := writeFile(t, "w.cc", "// COPIED FROM: chromium\\src\\ui\\w.cc\n// LAST SYNCHRONIZED: aa11\n")

	info, err := FileResolver{}.Resolve(path, "")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "chromium/src/ui/w.cc", info.CopiedFromPath)
}

func TestSetLastSynchronized_RewritesMarkerOnly(t *testing.T) {
	path := writeFile(t, "widget.cc", tracked)

	require.NoError(t, FileResolver{}.SetLastSynchronized(path, "deadbeef"))

	info, err := FileResolver{}.Resolve(path, "")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "deadbeef", info.LastSynchronized)
	assert.Equal(t, "chromium/src/ui/views/widget.cc", info.CopiedFromPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#include \"widget.h\"")
	assert.NotContains(t, string(data), "4f2c1a9e")
}

func TestSetLastSynchronized_NoMarker(t *testing.T) {
	path := writeFile(t, "plain.cc", "#include \"plain.h\"\n")
	err := FileResolver{}.SetLastSynchronized(path, "deadbeef")
	assert.ErrorContains(t, err, "no LAST SYNCHRONIZED marker")
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/b/c", NormalizePath(" a\\b\\c "))
	assert.Equal(t, "a/b", NormalizePath("a/b"))
}
