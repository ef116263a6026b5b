package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uidom/uidom/internal/builtins"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/module"
	"github.com/uidom/uidom/internal/parser"
	"github.com/uidom/uidom/internal/source"
)

func checkSource(t *testing.T, text string) (*Component, *module.Module) {
	t.Helper()
	comp, parseDiags := parser.Parse(source.New("t.ui", text))
	if parseDiags.Failed() {
		t.Fatalf("unexpected parse failure: %s", parseDiags.Render())
	}
	diags := &diag.Bag{}
	diags.Merge(parseDiags)
	m := module.New(builtins.Table(), diags)
	checked, _ := CheckComponent(comp, m)
	return checked, m
}

func TestCheckSimpleComponent(t *testing.T) {
	input := `
pub size: Length;
Rect { x1: 0px; y1: 0px; x2: size; y2: size; fill: #f00 }
`
	checked, m := checkSource(t, input)
	if m.Diags.Failed() {
		t.Fatalf("unexpected failure: %s", m.Diags.Render())
	}
	if len(checked.Root.Props) != 5 {
		t.Fatalf("unexpected props: %+v", checked.Root.Props)
	}
	for _, p := range checked.Root.Props {
		if p.Name == "x2" {
			if diff := cmp.Diff([]string{"size"}, p.Expr.Bindings); diff != "" {
				t.Fatalf("unexpected x2 bindings (-want +got):\n%s", diff)
			}
		}
	}
}

func TestCheckPropertyNotFound(t *testing.T) {
	_, m := checkSource(t, `Rect { x2: size }`)
	if !m.Diags.Failed() {
		t.Fatalf("expected a property-not-found failure")
	}
}

func TestCheckRepeaterRewrite(t *testing.T) {
	input := `
Layout {
  layout: .row;
  Pane for i in 4 { }
}
`
	checked, m := checkSource(t, input)
	if m.Diags.Failed() {
		t.Fatalf("unexpected failure: %s", m.Diags.Render())
	}
	pane := checked.Root.Children[0].(*Element)
	if pane.Repeater == nil || pane.Repeater.ElemType.Kind() != module.KInt {
		t.Fatalf("unexpected repeater: %+v", pane.Repeater)
	}
}

func TestCheckChildRuleViolation(t *testing.T) {
	input := `
Layout {
  layout: .row;
  Rect { }
}
`
	_, m := checkSource(t, input)
	if !m.Diags.Failed() {
		t.Fatalf("expected a child-rule violation (Layout only admits Pane)")
	}
}

func TestCheckPresetClobberConflict(t *testing.T) {
	input := `Rect { x1: 1px; scaleToParent: 1.0 }`
	_, m := checkSource(t, input)
	if !m.Diags.Failed() {
		t.Fatalf("expected a preset-clobber conflict")
	}
}

func TestCheckIntToFloatCoercion(t *testing.T) {
	input := `Rect { fill: Brush.rgb(1, 0, 0) }`
	checked, m := checkSource(t, input)
	if m.Diags.Failed() {
		t.Fatalf("unexpected failure: %s", m.Diags.Render())
	}
	call := checked.Root.Props[0].Expr
	if call.Type.Kind() != module.KBrush {
		t.Fatalf("expected Brush, got %s", call.Type)
	}
}

func TestCheckStringCoercion(t *testing.T) {
	input := `pub n: Int; Text { content: n }`
	checked, m := checkSource(t, input)
	if m.Diags.Failed() {
		t.Fatalf("unexpected failure: %s", m.Diags.Render())
	}
	content := checked.Root.Props[0].Expr
	if content.Coercion != ToString || content.Type.Kind() != module.KString {
		t.Fatalf("expected ToString coercion, got %+v", content)
	}
}

func TestCheckUnknownEnumMember(t *testing.T) {
	input := `Layout { layout: .diagonal }`
	_, m := checkSource(t, input)
	if !m.Diags.Failed() {
		t.Fatalf("expected an unrecognized enum member failure")
	}
}

func TestCheckArityMismatch(t *testing.T) {
	input := `Rect { fill: Brush.rgb(1, 0) }`
	_, m := checkSource(t, input)
	if !m.Diags.Failed() {
		t.Fatalf("expected an arity mismatch failure")
	}
}

func TestCheckChildrenSlotAggregation(t *testing.T) {
	input := `Layout { layout: .row; Children(Pane) }`
	comp, parseDiags := parser.Parse(source.New("t.ui", input))
	require.False(t, parseDiags.Failed())

	rules := AggregateSlotRules(comp.Root, nil)
	ok, _ := rules.Permits("Pane")
	assert.True(t, ok, "expected Pane to be permitted by the aggregated slot rules")
	ok, _ = rules.Permits("Rect")
	assert.False(t, ok, "expected Rect not to be permitted")
}

func TestCheckChildrenSlotAggregationRecursesIntoNestedElements(t *testing.T) {
	// The natural pattern forced by Layout's own AnyOfChildren("Pane")
	// rule: the slot placeholder lives on Pane, one level below root,
	// not directly on root.
	input := `Layout { layout: .row; Pane { Children() } }`
	comp, parseDiags := parser.Parse(source.New("t.ui", input))
	require.False(t, parseDiags.Failed())

	rules := AggregateSlotRules(comp.Root, nil)
	assert.True(t, rules.Any, "expected the nested Children() placeholder to surface as this component's own aggregate rule")
}

func TestCheckChildrenSlotAggregationDiagnosesConflicts(t *testing.T) {
	input := `Layout { layout: .row; Pane { Children() } Pane { Children(Rect) } }`
	comp, parseDiags := parser.Parse(source.New("t.ui", input))
	require.False(t, parseDiags.Failed())

	diags := &diag.Bag{}
	AggregateSlotRules(comp.Root, diags)
	require.True(t, diags.Failed())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.TYP005 {
			found = true
		}
	}
	assert.True(t, found, "expected a TYP005 diagnostic for the conflicting Children() slots")
}
