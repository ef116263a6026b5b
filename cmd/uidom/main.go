// Command uidom compiles declarative UI component files into generated
// Go source against internal/host and internal/property, and offers a
// small interactive REPL for type-checking component snippets.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(os.Args[2:])
	case "repl":
		runRepl(os.Args[2:])
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	out := fs.String("out", ".", "output directory for generated Go source")
	pkg := fs.String("pkg", "generated", "package name for generated Go source")
	watch := fs.Bool("watch", false, "recompile whenever the input file changes")
	config := fs.String("config", "uidom.yaml", "path to an optional config file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: uidom compile [flags] <file.ui>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	path := fs.Arg(0)

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if cfg, err := loadConfig(*config); err == nil {
		if cfg.OutDir != "" && !explicit["out"] {
			*out = cfg.OutDir
		}
		if cfg.Package != "" && !explicit["pkg"] {
			*pkg = cfg.Package
		}
	} else if !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "%s: reading %s: %v\n", yellow("Warning"), *config, err)
	}

	if err := compileOnce(path, *out, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	if *watch {
		if err := watchAndCompile(path, *out, *pkg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
	}
}

func printHelp() {
	fmt.Println(bold("uidom - declarative UI component compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  uidom compile [--out dir] [--pkg name] [--watch] <file.ui>")
	fmt.Println("  uidom repl")
	fmt.Println()
	fmt.Println("compile checks a component file and writes its generated Go source.")
	fmt.Println("repl type-checks component snippets interactively without writing files.")
}
