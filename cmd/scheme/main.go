package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"

	scheme "github.com/Yhawaz/LISP-Interpeter"
)

const (
	appName      = "scheme"
	version      = "0.1.0"
	historyFile  = ".scheme_history"
	promptMain   = "in> "
	promptCont   = "... "
	quitSentinel = "QUIT"
)

var helpText = `
REPL commands:
  QUIT, :quit   Exit the REPL
  :env          List names defined in the global environment
  :help         Show this help
`

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		// `scheme a.scm b.scm` preloads the files and starts the REPL.
		if strings.HasPrefix(cmd, "-") || fileExists(cmd) {
			os.Exit(cmdRepl(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Scheme %s

Usage:
  %s [file ...]                           Load files, then start the REPL.
  %s repl [-v] [-config path] [file ...]  Same as above, with options.
  %s run [-v] <file>                      Evaluate a file and print its value.
  %s version                              Print the version

`, version, appName, appName, appName, appName)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "print parse details on error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-v] <file>\n", appName)
		return 2
	}

	file := fs.Arg(0)
	v, err := scheme.EvaluateFile(file, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err, *verbose))
		return 1
	}
	fmt.Println(scheme.FormatValue(v))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "echo tokens and parsed expressions; detailed errors")
	configPath := fs.String("config", "", "path to a YAML config file (default ~/"+configFileName+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path, explicit := resolveConfigPath(*configPath)
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *verbose {
		cfg.Verbose = true
	}

	// One environment for the whole run; every preloaded file defines into it.
	s := newSession(os.Stdout, os.Stderr, cfg)
	for _, f := range append(cfg.Preload, fs.Args()...) {
		if _, err := s.ip.EvalFile(f); err != nil {
			fmt.Fprintln(os.Stderr, s.paint(red, describeError(err, cfg.Verbose)))
			return 1
		}
	}

	fmt.Printf("Scheme %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type QUIT to exit.\n", version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	// The signal path exits without running defers, so both exits share this.
	var saveOnce sync.Once
	save := func() {
		saveOnce.Do(func() {
			if err := saveHistory(ln, cfg.History); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		})
	}
	defer save()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		save()
		ln.Close()
		os.Exit(130)
	}()

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, cfg.Continuation)
		if !ok {
			fmt.Println()
			break
		}
		if s.handle(code) {
			break
		}
		if strings.TrimSpace(code) != "" {
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
	}
	return 0
}

type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// saveHistory writes the line history to path. An empty path disables it.
func saveHistory(h historyWriter, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if _, err := h.WriteHistory(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("history: %w", err)
	}
	return f.Close()
}

// readByParseProbe keeps reading continuation lines while the buffered input
// is an unterminated expression.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" || isCommand(src) {
			return src, true
		}
		_, perr := scheme.ParseInteractive(src)
		if scheme.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func isCommand(src string) bool {
	t := strings.TrimSpace(src)
	return t == quitSentinel || strings.HasPrefix(t, ":")
}

// -----------------------------------------------------------------------------
// session: one REPL environment plus its output streams
// -----------------------------------------------------------------------------

type session struct {
	ip  *scheme.Interpreter
	out io.Writer
	err io.Writer
	cfg Config
}

func newSession(out, errw io.Writer, cfg Config) *session {
	return &session{ip: scheme.NewInterpreter(), out: out, err: errw, cfg: cfg}
}

func (s *session) paint(color func(string) string, text string) string {
	if !s.cfg.Color {
		return text
	}
	return color(text)
}

// handle processes one complete input and reports whether the REPL should stop.
func (s *session) handle(code string) (quit bool) {
	trimmed := strings.TrimSpace(code)
	switch {
	case trimmed == "":
		return false
	case trimmed == quitSentinel:
		return true
	case strings.HasPrefix(trimmed, ":"):
		return s.command(strings.ToLower(trimmed))
	}

	if s.cfg.Verbose {
		fmt.Fprintf(s.out, "tokens> %q\n", scheme.Tokenize(code))
	}
	ast, err := scheme.ParseSource(code)
	if err != nil {
		s.report(scheme.WrapErrorWithName(err, "<repl>", code))
		return false
	}
	if s.cfg.Verbose {
		fmt.Fprintf(s.out, "expression> %s\n", scheme.FormatSExpr(ast))
	}

	v, err := s.ip.EvalAST(ast)
	if err != nil {
		s.report(err)
		return false
	}
	fmt.Fprintf(s.out, "  out> %s\n", s.paint(blue, scheme.FormatValue(v)))
	return false
}

func (s *session) command(cmd string) bool {
	switch cmd {
	case ":quit":
		return true
	case ":env":
		names := s.ip.Global.Names()
		if len(names) == 0 {
			fmt.Fprintln(s.out, "(no definitions)")
		}
		for _, n := range names {
			v, _ := s.ip.Global.Get(n)
			fmt.Fprintf(s.out, "%s = %s\n", s.paint(green, n), scheme.FormatValue(v))
		}
	case ":help":
		fmt.Fprint(s.out, helpText)
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for a list.")
	}
	return false
}

func (s *session) report(err error) {
	fmt.Fprintf(s.err, "%s\n", s.paint(red, "Error> "+describeError(err, s.cfg.Verbose)))
}

// describeError names the error kind; in verbose mode the rendered snippet
// (for syntax errors) is kept in full.
func describeError(err error, verbose bool) string {
	msg := err.Error()
	if !verbose {
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
	}
	return msg
}
