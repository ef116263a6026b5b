package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestLoadAggregatesNestedChildrenSlot(t *testing.T) {
	dir := t.TempDir()
	// The slot placeholder lives on Pane, one level below Layout's own
	// root, which is the only way to satisfy Layout's own
	// AnyOfChildren("Pane") child rule.
	writeFile(t, dir, "button.ui", `Layout { layout: .row; Pane { Children() } }`)
	mainPath := writeFile(t, dir, "main.ui", `
import "button.ui" as Button;
Button { Rect { } }
`)

	l := New()
	entry, err := l.Load(mainPath)
	require.NoError(t, err)
	require.False(t, entry.Diags.Failed(), "unexpected diagnostics: %s", entry.Diags.Render())

	button := entry.Imports["Button"]
	require.NotNil(t, button)
	ok, _ := button.Def.ChildRules.Permits("Rect")
	assert.True(t, ok, "expected the nested Children() placeholder to surface as Button's own aggregate child rule")
}

func TestLoadDiagnosesConflictingChildrenSlots(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "button.ui", `
Layout {
  layout: .row;
  Pane { Children() }
  Pane { Children(Rect) }
}
`)

	l := New()
	entry, err := l.Load(path)
	require.NoError(t, err)
	assert.True(t, entry.Diags.Failed(), "expected a TYP005 diagnostic for the conflicting Children() slots")
}

func TestLoadDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ui", `import "b.ui" as B; Rect { }`)
	writeFile(t, dir, "b.ui", `import "a.ui" as A; Rect { }`)

	l := New()
	_, err := l.Load(filepath.Join(dir, "a.ui"))
	assert.Error(t, err)
}
