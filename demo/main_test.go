package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Espyo/Pikifen-sub020/meshio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const square = `POLYGON((0 0,10 0,10 10,0 10,0 0))`

func TestRunExports(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  console: false\nindex:\n  kind: rtree\n"), 0o644))

	objPath := filepath.Join(dir, "level.obj")
	pngPath := filepath.Join(dir, "level.png")
	meshPath := filepath.Join(dir, "level.bin")
	var out, errOut bytes.Buffer
	err := run([]string{
		"-config", cfgPath, "-wkt", square,
		"-obj", objPath, "-png", pngPath, "-mesh", meshPath,
		"-point", "5, 5",
	}, &out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, "point 5,5: sector 0\n", out.String())

	for _, p := range []string{objPath, pngPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), p)
	}
	data, err := os.ReadFile(meshPath)
	require.NoError(t, err)
	var mesh meshio.MeshData
	require.NoError(t, mesh.FromBin(data))
	require.Len(t, mesh.Sectors, 1)
	assert.Len(t, mesh.Sectors[0].Triangles, 2)
}

func TestRunReportsProblems(t *testing.T) {
	dir := t.TempDir()
	levelPath := filepath.Join(dir, "level.yaml")
	level := `
vertices: [[0, 0], [1, 0], [1, 1]]
edges:
  - {vertices: [0, 1], sectors: [0, -1]}
  - {vertices: [1, 2], sectors: [0, -1]}
sectors:
  - {z: 0, brightness: 255}
`
	require.NoError(t, os.WriteFile(levelPath, []byte(level), 0o644))

	var out bytes.Buffer
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  console: false\n"), 0o644))
	require.NoError(t, run([]string{"-config", cfg, "-level", levelPath, "-report", "-"}, &out, &out))
	assert.Contains(t, out.String(), "sector 0: sector is not closed")
	assert.Contains(t, out.String(), "lone edge 0")
	assert.Contains(t, out.String(), `"failed_sectors"`)
}

func TestRunBadArgs(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, &out, &out))
	assert.Error(t, run([]string{"-wkt", square, "-level", "x.yaml"}, &out, &out))
	assert.Error(t, run([]string{"-wkt", square, "-point", "1"}, &out, &out))
	assert.Error(t, run([]string{"-level", filepath.Join(t.TempDir(), "missing.yaml")}, &out, &out))

	_, err := parsePoint("1.5,x")
	assert.Error(t, err)
	p, err := parsePoint("1.5,-2")
	require.NoError(t, err)
	assert.Equal(t, 1.5, p.X())
	assert.Equal(t, -2.0, p.Y())
}
