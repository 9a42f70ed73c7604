package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/modscope/modscope"
	"github.com/modscope/modscope/cache"
	"github.com/modscope/modscope/importer"
	"github.com/modscope/modscope/scope"
	"github.com/modscope/modscope/scriptfile"
)

func main() {
	var (
		moduleFile  = flag.String("module", "", "Path to module file")
		names       = flag.String("names", "", "Names to import (comma-separated, local=export to rename)")
		into        = flag.String("into", "", "Registered namespace to import into (default: print to stdout)")
		list        = flag.Bool("list", false, "List module bindings and exit")
		fingerprint = flag.String("fingerprint", "content", "Cache fingerprint mode: content or modtime")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *moduleFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: modscope -module <file.mod> -names a,b,x=c [-into ns]")
		fmt.Fprintln(os.Stderr, "       modscope -module <file.mod> -list")
		fmt.Fprintln(os.Stderr, "       modscope -module <file.mod> -i  (interactive mode)")
		os.Exit(1)
	}

	mode := cache.Content
	if *fingerprint == "modtime" {
		mode = cache.ModTime
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			importer.SetLogger(logger)
			cache.SetLogger(logger)
		}
	}

	eng := newEngine(mode)

	if *interactive {
		if err := runInteractive(eng, *moduleFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(eng, *moduleFile, *names, *into, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEngine wires an engine whose scriptfile evaluator loads `use` directives
// through the engine's own cache.
func newEngine(mode cache.Mode) *importer.Engine {
	var eng *importer.Engine
	eval := scriptfile.NewWithLoader(func(ctx context.Context, path string) (*scope.Namespace, error) {
		return eng.Cache().GetOrLoad(ctx, path)
	})

	opts := importer.DefaultOptions()
	opts.Fingerprint = mode
	eng = importer.New(modscope.NewMapRegistry(), eval, opts)
	return eng
}

func run(eng *importer.Engine, moduleFile, namesStr, into string, listOnly bool) error {
	ctx := context.Background()

	if listOnly {
		ns, err := eng.Cache().GetOrLoad(ctx, absPath(moduleFile))
		if err != nil {
			return err
		}
		fmt.Printf("Module: %s\n", moduleFile)
		fmt.Printf("Bindings: %d\n", ns.Len())
		for _, name := range ns.Names() {
			v, _ := ns.Get(name)
			fmt.Printf("  %s = %v\n", name, v)
		}
		return nil
	}

	if namesStr == "" {
		return fmt.Errorf("no names requested (use -names or -list)")
	}
	names := splitNames(namesStr)

	if into != "" {
		if err := eng.ImportInto(ctx, into, moduleFile, names, importer.AsFile()); err != nil {
			return err
		}
		ns := eng.Chain().Lookup(into)
		fmt.Printf("Imported %d name(s) into %q\n", len(names), into)
		for _, name := range ns.Names() {
			v, _ := ns.Get(name)
			fmt.Printf("  %s = %v\n", name, v)
		}
		fmt.Printf("Search chain: %s\n", strings.Join(eng.Chain().Names(), " -> "))
		return nil
	}

	local := scope.NewNamespace()
	if err := eng.ImportHere(ctx, local, moduleFile, names, importer.AsFile()); err != nil {
		return err
	}
	for _, name := range local.Names() {
		v, _ := local.Get(name)
		fmt.Printf("%s = %v\n", name, v)
	}
	return nil
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
