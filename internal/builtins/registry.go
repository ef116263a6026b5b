// Package builtins holds the fixed table of builtin component and
// module definitions the checker consults. The registry is data, not
// logic: it is built once and handed to a module.Module as its base
// scope.
package builtins

import "github.com/uidom/uidom/internal/module"

// Table returns the builtin name -> Type registry, containing both the
// builtin element components (Rect, Layout, Pane, Text) and the
// builtin function modules (Brush, Math), matching the fixed table in
// the component design (§6.2).
func Table() map[string]module.Type {
	rect := &module.ComponentDef{
		Name: "Rect",
		Props: map[string]module.PropertyDef{
			"x1":            {Type: module.Length},
			"y1":            {Type: module.Length},
			"x2":            {Type: module.Length},
			"y2":            {Type: module.Length},
			"scaleToParent": {Type: module.Float, ChildNames: []string{"x1", "y1", "x2", "y2"}},
			"fill":          {Type: module.Brush},
		},
		ChildRules: module.AnyChildren(),
	}

	layout := &module.ComponentDef{
		Name: "Layout",
		Props: map[string]module.PropertyDef{
			"layout":  {Type: module.EnumLayout},
			"padding": {Type: module.Length},
		},
		ChildRules: module.AnyOfChildren("Pane"),
	}

	pane := &module.ComponentDef{
		Name:       "Pane",
		Props:      map[string]module.PropertyDef{},
		ChildRules: module.AnyChildren(),
	}

	text := &module.ComponentDef{
		Name: "Text",
		Props: map[string]module.PropertyDef{
			"content": {Type: module.String},
		},
		ChildRules: module.NoChildren(),
	}

	brush := &module.ModuleDef{
		Name: "Brush",
		Props: map[string]module.PropertyDecl{
			"rgb": module.NewFunctionProp("rgb", []module.Type{module.Float, module.Float, module.Float}, module.Brush),
		},
	}

	math := &module.ModuleDef{
		Name: "Math",
		Props: map[string]module.PropertyDecl{
			"random": module.NewFunctionProp("random", nil, module.Float),
		},
	}

	return map[string]module.Type{
		"Rect":   module.ComponentOf(rect),
		"Layout": module.ComponentOf(layout),
		"Pane":   module.ComponentOf(pane),
		"Text":   module.ComponentOf(text),
		"Brush":  module.ModuleOf(brush),
		"Math":   module.ModuleOf(math),
	}
}

// EnumLayoutMembers lists the admissible members of the EnumLayout type.
func EnumLayoutMembers() map[string]bool {
	return map[string]bool{"row": true, "column": true}
}
