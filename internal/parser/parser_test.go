package parser

import (
	"testing"

	"github.com/uidom/uidom/internal/ast"
	"github.com/uidom/uidom/internal/source"
)

func parse(t *testing.T, text string) (*ast.Component, bool) {
	t.Helper()
	comp, bag := Parse(source.New("t.ui", text))
	return comp, bag.Failed()
}

func TestParseMinimalComponent(t *testing.T) {
	comp, failed := parse(t, `Rect { }`)
	if failed {
		t.Fatalf("unexpected failure")
	}
	if comp.Root == nil || len(comp.Root.Tag) != 1 || comp.Root.Tag[0] != "Rect" {
		t.Fatalf("unexpected root: %+v", comp.Root)
	}
}

func TestParseImportsAndProps(t *testing.T) {
	input := `
import "button.ui" as Button;
pub size: Length;
count: Int;
Layout {
  layout: .row;
  padding: 4px;
}
`
	comp, failed := parse(t, input)
	if failed {
		t.Fatalf("unexpected failure")
	}
	if len(comp.Imports) != 1 || comp.Imports[0].Path != "button.ui" || comp.Imports[0].Alias != "Button" {
		t.Fatalf("unexpected imports: %+v", comp.Imports)
	}
	if len(comp.Props) != 2 || !comp.Props[0].IsPub || comp.Props[0].Name != "size" {
		t.Fatalf("unexpected props: %+v", comp.Props)
	}
	if comp.Props[1].IsPub || comp.Props[1].Name != "count" {
		t.Fatalf("unexpected second prop: %+v", comp.Props[1])
	}
	if len(comp.Root.Props) != 2 {
		t.Fatalf("unexpected root props: %+v", comp.Root.Props)
	}
}

func TestParsePropDeclAfterContentIsError(t *testing.T) {
	input := `
Rect { }
size: Length;
`
	_, failed := parse(t, input)
	if !failed {
		t.Fatalf("expected a failure for a declaration after the root element")
	}
}

func TestParseRootRejectsConditionAndRepeater(t *testing.T) {
	_, failed := parse(t, `Rect for i in 3 { }`)
	if !failed {
		t.Fatalf("expected failure: for is not permitted on the root element")
	}
	_, failed = parse(t, `Rect if true { }`)
	if !failed {
		t.Fatalf("expected failure: if is not permitted on the root element")
	}
}

func TestParseNestedRepeaterAndCondition(t *testing.T) {
	input := `
Layout {
  Pane for item, index in items if enabled {
  }
}
`
	comp, failed := parse(t, input)
	if failed {
		t.Fatalf("unexpected failure")
	}
	pane, ok := comp.Root.Children[0].(*ast.Element)
	if !ok {
		t.Fatalf("expected an Element child, got %T", comp.Root.Children[0])
	}
	if pane.Repeater == nil || pane.Repeater.Item != "item" || pane.Repeater.Index != "index" {
		t.Fatalf("unexpected repeater: %+v", pane.Repeater)
	}
	if pane.Condition == nil {
		t.Fatalf("expected a condition")
	}
}

func TestParseUnderscoreBindingsAreOmitted(t *testing.T) {
	comp, failed := parse(t, `Layout { Pane for _, i in 3 { } }`)
	if failed {
		t.Fatalf("unexpected failure")
	}
	pane := comp.Root.Children[0].(*ast.Element)
	if pane.Repeater.Item != "" || pane.Repeater.Index != "i" {
		t.Fatalf("unexpected repeater: %+v", pane.Repeater)
	}
}

func TestParseBareStringChildBecomesTextElement(t *testing.T) {
	comp, failed := parse(t, `Rect { "hello" }`)
	if failed {
		t.Fatalf("unexpected failure")
	}
	el := comp.Root.Children[0].(*ast.Element)
	if el.Tag[0] != "Text" {
		t.Fatalf("expected synthesized Text element, got tag %v", el.Tag)
	}
	lit, ok := el.Props[0].Expr.(*ast.StringLit)
	if !ok || lit.Value != "hello" {
		t.Fatalf("unexpected content prop: %+v", el.Props[0])
	}
}

func TestParseChildrenFilter(t *testing.T) {
	comp, failed := parse(t, `Layout { Children(Pane) }`)
	if failed {
		t.Fatalf("unexpected failure")
	}
	filter, ok := comp.Root.Children[0].(*ast.ChildrenFilter)
	if !ok {
		t.Fatalf("expected a ChildrenFilter, got %T", comp.Root.Children[0])
	}
	if len(filter.Paths) != 1 || filter.Paths[0][0] != "Pane" {
		t.Fatalf("unexpected filter paths: %+v", filter.Paths)
	}
}

func TestParseDuplicatePropAssignIsError(t *testing.T) {
	_, failed := parse(t, `Rect { x1: 1px; x1: 2px; }`)
	if !failed {
		t.Fatalf("expected a duplicate property assignment error")
	}
}

func TestParseDuplicatePropDeclIsError(t *testing.T) {
	_, failed := parse(t, `size: Length; size: Int; Rect { }`)
	if !failed {
		t.Fatalf("expected a duplicate property declaration error")
	}
}

func TestParseHexColorExpansion(t *testing.T) {
	comp, failed := parse(t, `Rect { fill: #ff00ff } `)
	if failed {
		t.Fatalf("unexpected failure")
	}
	lit := comp.Root.Props[0].Expr.(*ast.ColorLit)
	if lit.R != 1 || lit.G != 0 || lit.B != 1 || lit.A != 1 {
		t.Fatalf("unexpected color: %+v", lit)
	}
}

func TestParseFunctionCall(t *testing.T) {
	comp, failed := parse(t, `Rect { fill: Brush.rgb(1, 0.5, 0) } `)
	if failed {
		t.Fatalf("unexpected failure")
	}
	call, ok := comp.Root.Props[0].Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a CallExpr, got %T", comp.Root.Props[0].Expr)
	}
	if len(call.Callee.Segments) != 2 || call.Callee.Segments[1] != "rgb" {
		t.Fatalf("unexpected callee: %+v", call.Callee)
	}
	if len(call.Args) != 3 {
		t.Fatalf("unexpected args: %+v", call.Args)
	}
}

func TestParseNegativeNumber(t *testing.T) {
	comp, failed := parse(t, `Rect { x1: -4px } `)
	if failed {
		t.Fatalf("unexpected failure")
	}
	lit := comp.Root.Props[0].Expr.(*ast.PxLit)
	if lit.Value != -4 {
		t.Fatalf("expected -4, got %v", lit.Value)
	}
}

func TestParseUnknownNumericSuffixIsError(t *testing.T) {
	_, failed := parse(t, `Rect { x1: 4em } `)
	if !failed {
		t.Fatalf("expected an unknown-suffix error")
	}
}

func TestParseMissingRootElementIsError(t *testing.T) {
	_, failed := parse(t, `pub size: Length;`)
	if !failed {
		t.Fatalf("expected an error for a missing root element")
	}
}

func TestParseOptionalStatementSeparatorBeforeClosingBrace(t *testing.T) {
	_, failed := parse(t, `Rect { x1: 1px }`)
	if failed {
		t.Fatalf("a missing ';' immediately before '}' should be accepted")
	}
}
