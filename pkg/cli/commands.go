package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/funvibe/hxtype/internal/analyzer"
	"github.com/funvibe/hxtype/internal/cache"
	"github.com/funvibe/hxtype/internal/config"
	"github.com/funvibe/hxtype/internal/model"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/structure"
	"github.com/funvibe/hxtype/internal/typesystem"
)

func (e *env) render(args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	projectPath := fs.String("project", "", "project file declaring the classes referenced by the types")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return exitUsage
	}
	if len(positional) == 0 {
		fmt.Fprintln(e.stderr, "Usage: hxtype render [-project file] <type>...")
		return exitUsage
	}

	resolver := typesystem.NewTypeResolver(nil)
	if *projectPath != "" {
		project, err := e.loadProject(*projectPath)
		if err != nil {
			fmt.Fprintf(e.stderr, "Error: %v\n", err)
			return exitFail
		}
		resolver = project.Resolver()
	}

	var store *cache.Store
	if e.settings.CachePath != "" && *projectPath == "" {
		store, err = cache.Open(e.settings.CachePath)
		if err != nil {
			e.log.Printf("signature cache disabled: %v", err)
		} else {
			defer store.Close()
		}
	}

	code := exitOK
	for _, src := range positional {
		entry, ok := e.cached(store, src)
		if !ok {
			ctx := analyzer.Analyze(src, resolver, nil)
			if ctx.HasErrors() {
				e.printDiagnostics(ctx.Errors)
				code = exitFail
				continue
			}
			entry = cache.NewEntry(src, nil, ctx.Type)
			if store != nil {
				if err := store.Put(entry); err != nil {
					e.log.Printf("cache write failed: %v", err)
				}
			}
		}

		fmt.Fprintln(e.stdout, entry.Rendered)
		fmt.Fprintf(e.stdout, "  signature: %s\n", entry.Plain)
		fmt.Fprintf(e.stdout, "  required:  %d\n", entry.RequiredArgs)
	}
	return code
}

func (e *env) cached(store *cache.Store, src string) (cache.Entry, bool) {
	if store == nil {
		return cache.Entry{}, false
	}
	entry, ok, err := store.Get(cache.Key(src, nil))
	if err != nil {
		e.log.Printf("cache read failed: %v", err)
		return cache.Entry{}, false
	}
	return entry, ok
}

func (e *env) assign(args []string) int {
	fs := flag.NewFlagSet("assign", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	projectPath := fs.String("project", "", "project file declaring the classes referenced by the types")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return exitUsage
	}
	if len(positional) != 2 {
		fmt.Fprintln(e.stderr, "Usage: hxtype assign [-project file] <to> <from>")
		return exitUsage
	}

	resolver := typesystem.NewTypeResolver(nil)
	if *projectPath != "" {
		project, err := e.loadProject(*projectPath)
		if err != nil {
			fmt.Fprintf(e.stderr, "Error: %v\n", err)
			return exitFail
		}
		resolver = project.Resolver()
	}

	var resolved [2]*pipeline.PipelineContext
	for i, src := range positional {
		resolved[i] = analyzer.Analyze(src, resolver, nil)
		if resolved[i].HasErrors() {
			e.printDiagnostics(resolved[i].Errors)
			return exitFail
		}
	}

	if err := typesystem.CheckAssign(resolved[0].Type.Type(), resolved[1].Type.Type()); err != nil {
		fmt.Fprintln(e.stdout, "false")
		e.log.Print(err)
		return exitFail
	}
	fmt.Fprintln(e.stdout, "true")
	return exitOK
}

func (e *env) structure(args []string) int {
	fs := flag.NewFlagSet("structure", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	pattern := fs.String("filter", "", "only show members matching this glob")
	sorted := fs.Bool("sort", false, "sort siblings alphabetically")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return exitUsage
	}
	if len(positional) != 1 {
		fmt.Fprintln(e.stderr, "Usage: hxtype structure <project> [-filter glob] [-sort]")
		return exitUsage
	}

	project, err := e.loadProject(positional[0])
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitFail
	}

	opts := structure.Options{Sort: *sorted, Color: e.color}
	if *pattern != "" {
		if opts.Filter, err = structure.NewFilter(*pattern); err != nil {
			fmt.Fprintf(e.stderr, "Error: %v\n", err)
			return exitUsage
		}
	}
	if err := structure.Render(e.stdout, structure.Roots(project), opts); err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitFail
	}
	return exitOK
}

func (e *env) member(args []string) int {
	if len(args) != 3 {
		fmt.Fprintln(e.stderr, "Usage: hxtype member <project> <class> <member>")
		return exitUsage
	}
	project, err := e.loadProject(args[0])
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitFail
	}

	h, diags, err := project.MemberType(args[1], args[2])
	e.printDiagnostics(diags)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitFail
	}
	fmt.Fprintln(e.stdout, h.String())
	if len(diags) > 0 {
		return exitFail
	}
	return exitOK
}

func (e *env) check(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(e.stderr, "Usage: hxtype check <project>")
		return exitUsage
	}
	project, err := e.loadProject(args[0])
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitFail
	}
	project.SetCache(cache.NewMemo())

	report, err := project.ResolveAll(context.Background(), e.settings.Workers)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitFail
	}

	for _, r := range report.Members {
		fmt.Fprintf(e.stdout, "%s: %s\n", r.Member.QualifiedName(), r.Type.String())
	}
	diags := report.Diagnostics()
	e.printDiagnostics(diags)
	if report.HasErrors() {
		fmt.Fprintf(e.stderr, "%d problem(s) in %s\n", len(diags), args[0])
		return exitFail
	}
	return exitOK
}

func (e *env) loadProject(path string) (*model.Project, error) {
	if !isProjectFile(path) {
		e.log.Printf("%s does not have a project file extension (%s)", path, config.ProjectFileExt)
	}
	return model.Load(path)
}
