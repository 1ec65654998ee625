package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/snapshot"
	"github.com/1broseidon/winstate/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "capture":
		os.Exit(runCapture(os.Args[2:]))
	case "restore":
		os.Exit(runRestore(os.Args[2:]))
	case "show":
		os.Exit(runShow(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "delete":
		os.Exit(runDelete(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winstate <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  capture <name>      Save the geometry of a window")
	fmt.Fprintln(w, "  restore <name>      Restore saved geometry onto a window")
	fmt.Fprintln(w, "  show <name>         Print saved geometry")
	fmt.Fprintln(w, "  list                List saved names")
	fmt.Fprintln(w, "  delete <name>       Delete saved geometry")
	fmt.Fprintln(w, "  displays            List attached displays")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winstate <command> --help' for command-specific options.")
}

func runCapture(args []string) int {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate capture [--window ID] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Save the inner position and inner size of a window under <name>.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/winstate/config.yaml)")
	window := fs.String("window", "", "X11 window id, decimal or 0x-prefixed (default: active window)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "capture requires <name>")
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	svc, closeFn, err := openService(*path, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeFn()

	target, err := svc.ResolveWindow(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	settings, err := svc.Capture(fs.Arg(0), target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("window:     0x%x\n", uint32(target))
	printSettings(os.Stdout, settings)
	return 0
}

func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate restore [--window ID] [--dry-run] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore geometry saved under <name>. A stored position that lies")
		fmt.Fprintln(os.Stderr, "outside every attached display is skipped; the size is always restored.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/winstate/config.yaml)")
	window := fs.String("window", "", "X11 window id, decimal or 0x-prefixed (default: active window)")
	dryRun := fs.Bool("dry-run", false, "Print the restore plan without touching any window")
	policy := fs.String("policy", "", "Override position_policy: validate, always or strict")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "restore requires <name>")
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	svc, closeFn, err := openService(*path, !*dryRun)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeFn()

	if *policy != "" {
		p, err := geometry.ParsePositionPolicy(*policy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		svc.Policy = p
	}

	name := fs.Arg(0)
	if *dryRun {
		plan, err := svc.Plan(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printPlan(os.Stdout, plan)
		return 0
	}

	target, err := svc.ResolveWindow(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	plan, err := svc.Restore(name, target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("window:     0x%x\n", uint32(target))
	printPlan(os.Stdout, plan)
	return 0
}

func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate show [--json|--yaml] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print saved geometry. Defaults to YAML on a terminal and JSON otherwise.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/winstate/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output JSON")
	yamlOut := fs.Bool("yaml", false, "Output YAML")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "show requires <name>")
		fs.Usage()
		return 2
	}
	if *jsonOut && *yamlOut {
		fmt.Fprintln(os.Stderr, "--json and --yaml are mutually exclusive")
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	settings, err := cfg.Store().Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, store.ErrNotFound) {
			return 3
		}
		return 1
	}

	format := outputFormat(*jsonOut, *yamlOut, term.IsTerminal(int(os.Stdout.Fd())))
	if err := writeEncoded(os.Stdout, format, settings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List names with saved geometry.")
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/winstate/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output names as a JSON array")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	names, err := cfg.Store().List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		if names == nil {
			names = []string{}
		}
		if err := writeEncoded(os.Stdout, store.FormatJSON, names); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return 0
}

func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate delete <name>")
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/winstate/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "delete requires <name>")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := cfg.Store().Delete(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, store.ErrNotFound) {
			return 3
		}
		return 1
	}
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate displays [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List attached displays in physical pixels.")
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/winstate/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	svc, closeFn, err := openService(*path, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeFn()

	lister := svc.Displays
	if lister == nil {
		lister = svc.Backend
	}
	displays, err := lister.Displays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		if displays == nil {
			displays = []platform.Display{}
		}
		if err := writeEncoded(os.Stdout, store.FormatJSON, displays); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if len(displays) == 0 {
		fmt.Println("no displays reported")
		return 0
	}
	for _, d := range displays {
		marker := ""
		if d.Primary {
			marker = "  primary"
		}
		fmt.Printf("%d  %-10s %dx%d+%d+%d%s\n", d.ID, d.Name, d.Bounds.Width, d.Bounds.Height, d.Bounds.X, d.Bounds.Y, marker)
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	var res *config.LoadResult
	var err error
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// openService loads configuration and connects to the window system. When
// the connection fails and requireBackend is false, displays are listed
// through the screen fallback instead.
func openService(path string, requireBackend bool) (*snapshot.Service, func(), error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	svc := &snapshot.Service{
		Store:  cfg.Store(),
		Policy: cfg.Policy(),
		Logger: logger,
	}

	backend, err := platform.Open(cfg.Display)
	if err != nil {
		if requireBackend {
			return nil, nil, fmt.Errorf("failed to connect to display: %w", err)
		}
		logger.Debug("window system unavailable, using screen fallback", "error", err)
		svc.Displays = platform.ScreenLister{}
		return svc, func() {}, nil
	}
	svc.Backend = backend
	return svc, backend.Close, nil
}

func parseWindowID(s string) (*platform.WindowID, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid window id %q", s)
	}
	id := platform.WindowID(v)
	return &id, nil
}

func outputFormat(forceJSON, forceYAML, isTerminal bool) store.Format {
	switch {
	case forceJSON:
		return store.FormatJSON
	case forceYAML:
		return store.FormatYAML
	case isTerminal:
		return store.FormatYAML
	default:
		return store.FormatJSON
	}
}

func writeEncoded(w io.Writer, format store.Format, v any) error {
	if format == store.FormatYAML {
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSettings(w io.Writer, s geometry.Settings) {
	if p, ok := s.InnerPosition(); ok {
		fmt.Fprintf(w, "position:   %g,%g (physical)\n", p.X, p.Y)
	} else {
		fmt.Fprintln(w, "position:   unknown")
	}
	if sz, ok := s.InnerSize(); ok {
		fmt.Fprintf(w, "inner_size: %gx%g (logical)\n", sz.X, sz.Y)
	} else {
		fmt.Fprintln(w, "inner_size: unknown")
	}
}

func printPlan(w io.Writer, plan *snapshot.Plan) {
	fmt.Fprintf(w, "name:       %s\n", plan.Name)
	if p, ok := plan.Config.Position(); ok {
		fmt.Fprintf(w, "position:   %s %g,%g\n", plan.Report.Position, p.X, p.Y)
	} else {
		fmt.Fprintf(w, "position:   %s\n", plan.Report.Position)
	}
	if hit := plan.Report.DisplayHit; hit != nil {
		fmt.Fprintf(w, "display:    %dx%d+%d+%d\n", hit.Width, hit.Height, hit.X, hit.Y)
	}
	if plan.Report.DisplayError != "" {
		fmt.Fprintf(w, "displays:   %s\n", plan.Report.DisplayError)
	}
	if sz, ok := plan.Config.InnerSize(); ok {
		fmt.Fprintf(w, "inner_size: %gx%g (logical)\n", sz.Width, sz.Height)
	} else {
		fmt.Fprintln(w, "inner_size: unchanged")
	}
}
