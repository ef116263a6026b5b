package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/uidom/uidom/internal/builtins"
	"github.com/uidom/uidom/internal/checker"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/module"
	"github.com/uidom/uidom/internal/parser"
	"github.com/uidom/uidom/internal/source"
)

// runRepl accumulates input lines into one component snippet until a
// blank line is entered, then runs that snippet through the real parser and
// checker, printing the resulting component's property types or the
// diagnostics that failed it. It never touches internal/property: a
// snippet is type-checked, not run, matching the compiler pipeline's own
// scope.
func runRepl(args []string) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(bold("uidom repl") + " — enter a component body, blank line to check it, ctrl-d to exit")

	var buf []string
	for {
		prompt := "uidom> "
		if len(buf) > 0 {
			prompt = "     > "
		}
		input, err := line.Prompt(prompt)
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return
		}
		line.AppendHistory(input)

		if strings.TrimSpace(input) == "" {
			if len(buf) == 0 {
				continue
			}
			checkSnippet(strings.Join(buf, "\n"))
			buf = nil
			continue
		}
		buf = append(buf, input)
	}
}

func checkSnippet(text string) {
	comp, parseDiags := parser.Parse(source.New("<repl>", text))
	diags := &diag.Bag{}
	diags.Merge(parseDiags)
	if diags.Failed() {
		fmt.Print(diags.Render())
		return
	}

	m := module.New(builtins.Table(), diags)
	checked, ok := checker.CheckComponent(comp, m)
	if !ok {
		fmt.Print(m.Diags.Render())
		return
	}

	if len(checked.Props) == 0 {
		fmt.Println(green("ok") + " (no declared properties)")
	}
	for _, p := range checked.Props {
		fmt.Printf("%s %s: %s\n", green("ok"), p.Name, p.Type)
	}
	if checked.Root != nil {
		fmt.Printf("%s root element: %s\n", green("ok"), strings.Join(checked.Root.Tag, "."))
	}
}
