package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/config"
	"assembler-generator/internal/diagnostic"
	"assembler-generator/internal/fix"
	"assembler-generator/internal/gen"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/match"
	"assembler-generator/internal/model"
	"assembler-generator/internal/synth"
)

var errUsage = errors.New("usage")

// common holds the flags shared by every command.
type common struct {
	fs         *flag.FlagSet
	logLevel   slog.Level
	configPath string
	workspace  string
	stdout     io.Writer
	stderr     io.Writer
}

func newCommon(name string, stdout, stderr io.Writer, withWorkspace bool) *common {
	c := &common{fs: flag.NewFlagSet(name, flag.ContinueOnError), logLevel: slog.LevelWarn, stdout: stdout, stderr: stderr}
	c.fs.SetOutput(stderr)
	c.fs.TextVar(&c.logLevel, "log-level", &c.logLevel, "set log level (debug, info, warn, error)")
	c.fs.StringVar(&c.configPath, "config", "", "configuration file (default: "+config.FileName+" found from the workspace upwards)")

	if withWorkspace {
		c.fs.StringVar(&c.workspace, "workspace", "", "workspace YAML file")
	}

	return c
}

func (c *common) parse(args []string) error {
	if err := c.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}

		return err
	}

	return nil
}

func (c *common) logger() *slog.Logger {
	opts := slog.HandlerOptions{Level: c.logLevel}
	return slog.New(slog.NewTextHandler(c.stderr, &opts))
}

func (c *common) config() (*config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}

	dir := "."
	if c.workspace != "" {
		dir = filepath.Dir(c.workspace)
	}

	cfg, _, err := config.Discover(dir)

	return cfg, err
}

func (c *common) load() (*model.Memory, error) {
	if c.workspace == "" {
		fmt.Fprintln(c.stderr, "-workspace is required")
		c.fs.Usage()

		return nil, errUsage
	}

	return model.LoadFile(c.workspace)
}

// colorize reports whether w is a terminal that should receive colors.
func colorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

func paint(on bool, code, s string) string {
	if !on {
		return s
	}

	return code + s + ansiReset
}

func scanAll(ctx context.Context, m *model.Memory, classifier *match.Classifier, logger *slog.Logger) ([]diagnostic.Finding, diagnostic.Diagnostics, error) {
	files := m.Files()

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	var c diagnostic.Collector

	s := diagnostic.NewScanner(m, classifier, diagnostic.WithLogger(logger))
	diags, err := s.ScanFiles(ctx, paths, &c)

	return c.Findings(), diags, err
}

func runScan(args []string, stdout, stderr io.Writer) error {
	c := newCommon("scan", stdout, stderr, true)
	verbose := c.fs.Bool("v", false, "also print sites that need no conversion")

	if err := c.parse(args); err != nil {
		return err
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	logger := c.logger()
	o := fix.New(m, cfg.FixSettings(), fix.WithLogger(logger))

	findings, diags, err := scanAll(context.Background(), m, o.Classifier(), logger)
	if err != nil {
		return err
	}

	color := colorize(stdout)

	for i, f := range findings {
		fmt.Fprintf(stdout, "%d. %s %s\n", i+1, paint(color, ansiYellow, f.Location()), paint(color, ansiDim, f.ID.String()))
		fmt.Fprintf(stdout, "   %s\n", f.Message)

		for _, fx := range f.Fixes {
			fmt.Fprintf(stdout, "   [%s] %s\n", fx.Strategy, fx.Label)
		}
	}

	if *verbose {
		for _, d := range diags.Infos {
			fmt.Fprintln(stdout, paint(color, ansiDim, d.String()))
		}
	}

	fmt.Fprintf(stdout, "%d finding(s)\n", len(findings))

	return nil
}

func runFix(args []string, stdout, stderr io.Writer) error {
	c := newCommon("fix", stdout, stderr, true)
	selector := c.fs.String("finding", "", "finding ID or 1-based index from scan")
	strategyName := c.fs.String("strategy", holder.KindScopeWideStr, "holder strategy: scope or enclosing")
	out := c.fs.String("out", "", "write the touched files, rendered, below this directory")
	write := c.fs.Bool("write", false, "save the updated workspace back to the workspace file")

	if err := c.parse(args); err != nil {
		return err
	}

	strategy, err := holder.ParseKind(*strategyName)
	if err != nil {
		return err
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	logger := c.logger()
	o := fix.New(m, cfg.FixSettings(), fix.WithLogger(logger))

	findings, _, err := scanAll(context.Background(), m, o.Classifier(), logger)
	if err != nil {
		return err
	}

	finding, err := selectFinding(findings, *selector)
	if err != nil {
		return err
	}

	suggested, ok := finding.Fix(strategy)
	if !ok {
		return fmt.Errorf("finding %s offers no %s fix", finding.Location(), strategy)
	}

	outcome := o.Apply(finding, suggested)
	if !outcome.Applied() {
		fmt.Fprintf(stdout, "nothing changed: %s: %s\n", outcome.Stage, outcome.Skipped)
		return nil
	}

	fmt.Fprintf(stdout, "%s -> %s\n", finding.Location(), outcome.Call)
	fmt.Fprintf(stdout, "holder %s (%s)\n", outcome.Holder.Qualified(), describe(outcome))

	touched := []*model.File{finding.Site.File}
	if outcome.Holder.File != finding.Site.File {
		touched = append(touched, outcome.Holder.File)
	}

	rendered, err := gen.RenderFiles(touched)
	if err != nil {
		return err
	}

	if *out != "" {
		if err := gen.WriteFiles(rendered, *out); err != nil {
			return err
		}
	} else {
		for _, r := range rendered {
			fmt.Fprintf(stdout, "\n==> %s <==\n%s", r.Filename, r.Content)
		}
	}

	if *write {
		if err := model.WriteFile(m, c.workspace); err != nil {
			return err
		}
	}

	return nil
}

func describe(o fix.Outcome) string {
	state := "reused"
	switch {
	case o.Created:
		state = "created"
	case o.Adopted:
		state = "adopted"
	}

	added := make([]string, len(o.Added))
	for i, p := range o.Added {
		added[i] = p.String()
	}

	s := fmt.Sprintf("%s, added %v", state, added)
	if len(o.NearMisses) > 0 {
		s += fmt.Sprintf(", similar holders %v", o.NearMisses)
	}

	return s
}

func selectFinding(findings []diagnostic.Finding, selector string) (diagnostic.Finding, error) {
	if selector == "" {
		return diagnostic.Finding{}, errors.New("-finding is required")
	}

	if id, err := uuid.Parse(selector); err == nil {
		for _, f := range findings {
			if f.ID == id {
				return f, nil
			}
		}

		return diagnostic.Finding{}, fmt.Errorf("no finding with ID %s", id)
	}

	n, err := strconv.Atoi(selector)
	if err != nil || n < 1 || n > len(findings) {
		return diagnostic.Finding{}, fmt.Errorf("finding %q: not an ID or an index in 1..%d", selector, len(findings))
	}

	return findings[n-1], nil
}

func runShow(args []string, stdout, stderr io.Writer) error {
	c := newCommon("show", stdout, stderr, true)
	only := c.fs.String("file", "", "render only this file")

	if err := c.parse(args); err != nil {
		return err
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	files := m.Files()

	if *only != "" {
		f, ok := m.File(*only)
		if !ok {
			return fmt.Errorf("file %s: %w", *only, model.ErrNotFound)
		}

		files = []*model.File{f}
	}

	rendered, err := gen.RenderFiles(files)
	if err != nil {
		return err
	}

	for i, r := range rendered {
		if i > 0 {
			fmt.Fprintln(stdout)
		}

		fmt.Fprintf(stdout, "==> %s <==\n%s", r.Filename, r.Content)
	}

	return nil
}

func runTypes(args []string, stdout, stderr io.Writer) error {
	c := newCommon("types", stdout, stderr, false)

	var patterns stringList
	c.fs.Var(&patterns, "pkg", "Go package pattern to load (repeatable)")
	source := c.fs.String("source", "", "qualified source type, e.g. example.com/m/store.Order")
	target := c.fs.String("target", "", "qualified target type")

	if err := c.parse(args); err != nil {
		return err
	}

	if len(patterns) == 0 || *source == "" || *target == "" {
		fmt.Fprintln(stderr, "-pkg, -source and -target are required")
		c.fs.Usage()

		return errUsage
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	graph, err := analyze.NewLoader().LoadPackages(patterns...)
	if err != nil {
		return err
	}

	types := model.NewMemory(graph)

	src, err := analyze.ParseTypeRef(*source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}

	dst, err := analyze.ParseTypeRef(*target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	classifier := match.NewClassifier(types, cfg.IgnoreSet(),
		match.WithMaxContainerDepth(*cfg.Classifier.MaxContainerDepth))

	res := classifier.Classify(src, dst)
	fmt.Fprintf(stdout, "%s -> %s: %s (%s)\n", res.SourceType, res.TargetType, res.Verdict, res.Reason)

	if !res.NeedsConversion() {
		return nil
	}

	pair, err := synth.Unwrap(types, src, dst)
	if err != nil {
		return err
	}

	holderSettings := cfg.HolderSettings()
	synthSettings := cfg.SynthSettings()
	fmt.Fprintf(stdout, "holder %s\n", holderSettings.Naming.HolderName(pair.Target))

	listOf := synth.New(nil, synthSettings).ListOf

	for _, sig := range synth.Signatures(pair, listOf, types.HasZeroArgConstructor(pair.Target)) {
		fmt.Fprintf(stdout, "  %s(%s %s) %s\n", sig.Name, sig.ParamName, sig.Param, sig.Result)
	}

	return nil
}

type stringList []string

func (s *stringList) String() string {
	return fmt.Sprint(*s)
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
