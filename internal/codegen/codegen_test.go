package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uidom/uidom/internal/builtins"
	"github.com/uidom/uidom/internal/checker"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/module"
	"github.com/uidom/uidom/internal/parser"
	"github.com/uidom/uidom/internal/source"
)

func checkedComponent(t *testing.T, text string) *checker.Component {
	t.Helper()
	comp, parseDiags := parser.Parse(source.New("t.ui", text))
	require.False(t, parseDiags.Failed(), "unexpected parse failure: %s", parseDiags.Render())
	diags := &diag.Bag{}
	diags.Merge(parseDiags)
	m := module.New(builtins.Table(), diags)
	checked, ok := checker.CheckComponent(comp, m)
	require.True(t, ok, "unexpected check failure: %s", m.Diags.Render())
	return checked
}

func TestGenerateConstantProps(t *testing.T) {
	comp := checkedComponent(t, `Rect { x1: 0px; y1: 0px; x2: 10px; y2: 10px; fill: #f00 }`)
	out, err := Generate(comp, "generated")
	require.NoError(t, err)
	for _, want := range []string{
		"package generated",
		"host.NewRect(f)",
		"e.X1.Set(property.Px(0))",
		"e.Fill.Set(property.RGBA(1, 0, 0, 1))",
	} {
		assert.Contains(t, out, want)
	}
}

func TestGenerateBoundProp(t *testing.T) {
	comp := checkedComponent(t, `
pub size: Length;
Rect { x1: 0px; y1: 0px; x2: size; y2: size; fill: #f00 }
`)
	out, err := Generate(comp, "generated")
	require.NoError(t, err)
	assert.Contains(t, out, "property.Bind1(e.X2, c.Props.Size, func(size property.Length) property.Length { return size })")
}

func TestGenerateRepeaterOverInt(t *testing.T) {
	comp := checkedComponent(t, `
Layout {
  layout: .row;
  Pane for i in 4 { }
}
`)
	out, err := Generate(comp, "generated")
	require.NoError(t, err)
	for _, want := range []string{
		"host.NewRepeater[int64](f, property.IntOps, func(index int64, item int64) []host.Node {",
		"rep.Collection.Set(property.FromInt(int64(4)))",
	} {
		assert.Contains(t, out, want)
	}
}

func TestGenerateCondition(t *testing.T) {
	comp := checkedComponent(t, `
pub on: Boolean;
Pane {
  Rect if on { x1: 0px; y1: 0px; x2: 1px; y2: 1px; fill: #000 }
}
`)
	out, err := Generate(comp, "generated")
	require.NoError(t, err)
	assert.Contains(t, out, "property.Bind1(slot.Insert, c.Props.On, func(on bool) bool { return on })")
}

func TestGenerateStringCoercion(t *testing.T) {
	comp := checkedComponent(t, `pub n: Int; Text { content: n }`)
	out, err := Generate(comp, "generated")
	require.NoError(t, err)
	assert.Contains(t, out, "property.Bind1(e.Content, c.Props.N, func(n int64) string { return property.Stringify(n) })")
}

func TestGenerateMathRandomImportsRand(t *testing.T) {
	comp := checkedComponent(t, `Rect { x1: 0px; y1: 0px; x2: 1px; y2: 1px; fill: Brush.rgb(Math.random(), 0, 0) }`)
	out, err := Generate(comp, "generated")
	require.NoError(t, err)
	assert.Contains(t, out, "\"math/rand\"")
	assert.Contains(t, out, "rand.Float64()")
}

func TestGenerateCustomComponentTagIsUnsupported(t *testing.T) {
	comp := checkedComponent(t, `Rect { }`)
	comp.Root.Tag = []string{"SomeImportedThing"}
	_, err := Generate(comp, "generated")
	assert.Error(t, err)
}
