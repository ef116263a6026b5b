package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKebabCase(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Rect", "rect"},
		{"MyButton", "my-button"},
		{"HTTPServer", "h-t-t-p-server"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, kebabCase(c.name))
	}
}

func TestWriteFileAtomicCreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.go")

	require.NoError(t, writeFileAtomic(path, []byte("package generated\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package generated\n", string(got))

	require.NoError(t, writeFileAtomic(path, []byte("package generated2\n")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package generated2\n", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "out.go", e.Name(), "temp file was not cleaned up")
	}
}

func TestLoadConfigMissingFileIsNotExist(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "no-such.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadConfigParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uidom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out_dir: build\npackage: widgets\n"), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "build", cfg.OutDir)
	assert.Equal(t, "widgets", cfg.Package)
}

func TestCompileOnceWritesGeneratedFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rect.ui")
	require.NoError(t, os.WriteFile(src, []byte("Rect { x1: 0px; y1: 0px; x2: 10px; y2: 10px; fill: #f00 }\n"), 0644))

	require.NoError(t, compileOnce(src, dir, "generated"))

	out, err := os.ReadFile(filepath.Join(dir, "rect_generated.go"))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRunCompileFlagWinsOverConfig(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rect.ui")
	require.NoError(t, os.WriteFile(src, []byte("Rect { x1: 0px; y1: 0px; x2: 10px; y2: 10px; fill: #f00 }\n"), 0644))

	fromConfig := filepath.Join(dir, "from-config")
	cfgPath := filepath.Join(dir, "uidom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("out_dir: "+fromConfig+"\npackage: fromconfig\n"), 0644))

	fromFlag := filepath.Join(dir, "from-flag")
	runCompile([]string{"--out", fromFlag, "--pkg", "fromflag", "--config", cfgPath, src})

	_, err := os.Stat(filepath.Join(fromFlag, "rect_generated.go"))
	assert.NoError(t, err, "expected the explicit --out flag to win over uidom.yaml")

	_, err = os.Stat(filepath.Join(fromConfig, "rect_generated.go"))
	assert.True(t, os.IsNotExist(err), "expected uidom.yaml's out_dir not to be used when --out was explicit")
}

func TestRunCompileConfigAppliesWhenFlagNotSet(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rect.ui")
	require.NoError(t, os.WriteFile(src, []byte("Rect { x1: 0px; y1: 0px; x2: 10px; y2: 10px; fill: #f00 }\n"), 0644))

	fromConfig := filepath.Join(dir, "from-config")
	cfgPath := filepath.Join(dir, "uidom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("out_dir: "+fromConfig+"\npackage: fromconfig\n"), 0644))

	runCompile([]string{"--config", cfgPath, src})

	_, err := os.Stat(filepath.Join(fromConfig, "rect_generated.go"))
	assert.NoError(t, err, "expected uidom.yaml's out_dir to apply when --out wasn't explicitly set")
}

func TestCompileOnceReportsCheckFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.ui")
	require.NoError(t, os.WriteFile(src, []byte("Rect { x1: \"not a length\"; }\n"), 0644))

	err := compileOnce(src, dir, "generated")
	assert.Error(t, err)
}
