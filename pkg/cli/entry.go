// Package cli implements the hxtype command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/hxtype/internal/config"
	"github.com/funvibe/hxtype/internal/diagnostics"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `Usage: hxtype [-config file] [-color auto|always|never] <command> [arguments]

Commands:
  render <type>...                    print canonical renderings of type expressions
  assign <to> <from>                  check whether <from> is assignable to <to>
  structure <project> [-filter glob] [-sort]
                                      print the outline of a project file
  member <project> <class> <member>   print a member type as seen through a class reference
  check <project>                     resolve every member and report diagnostics
`

// env is the state shared by all commands of one invocation.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	settings *config.Settings
	color    bool
	log      *log.Logger
}

// Run executes the command line args (without the program name) and returns
// the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hxtype", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "settings file (default ./"+config.SettingsFileName+")")
	colorMode := fs.String("color", "", "color output: auto, always or never")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if fs.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFail
	}
	if *colorMode != "" {
		settings.Color = *colorMode
	}

	e := &env{
		stdout:   stdout,
		stderr:   stderr,
		settings: settings,
		log:      log.New(stderr, settings.LogPrefix, 0),
	}
	switch settings.Color {
	case config.ColorAlways:
		e.color = true
	case config.ColorNever:
		e.color = false
	case config.ColorAuto:
		e.color = isTerminal(stdout)
	default:
		fmt.Fprintf(stderr, "Error: invalid color mode %q\n", settings.Color)
		return exitUsage
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "render":
		return e.render(rest)
	case "assign":
		return e.assign(rest)
	case "structure":
		return e.structure(rest)
	case "member":
		return e.member(rest)
	case "check":
		return e.check(rest)
	case "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
	fmt.Fprint(stderr, usage)
	return exitUsage
}

// loadSettings reads path, or the nearest hxtype.toml when path is empty.
func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		if path, err = config.FindSettings(cwd); err != nil {
			return nil, err
		}
		if path == "" {
			return config.DefaultSettings(), nil
		}
	}
	return config.LoadSettings(path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseInterspersed parses fs allowing flags after positional arguments,
// e.g. "structure project.yaml -filter 'get*'".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func isProjectFile(path string) bool {
	for _, ext := range config.ProjectFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (e *env) printDiagnostics(errs []*diagnostics.DiagnosticError) {
	for _, err := range errs {
		msg := err.Error()
		if e.color {
			msg = "\033[31m" + msg + "\033[0m"
		}
		fmt.Fprintln(e.stderr, msg)
	}
}
