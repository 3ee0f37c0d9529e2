package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"assembler-generator/internal/holder"
	"assembler-generator/internal/match"
	"assembler-generator/internal/model"
)

// ErrDocumentChanged is returned when a file was modified while it was being
// scanned. The partial results of the scan are discarded.
var ErrDocumentChanged = errors.New("document changed during scan")

// DefaultConcurrency is the number of files scanned at once.
const DefaultConcurrency = 4

// Diagnostic codes.
const (
	CodeNeedsConversion = "needs_conversion"
	CodeScanFailed      = "scan_failed"
)

// SiteSource is the read-only view of the program model a scan needs.
type SiteSource interface {
	Sites(filePath string) ([]model.Site, int64, error)
	Version(filePath string) (int64, error)
}

// Scanner classifies the inspected sites of files and reports the ones that
// need a conversion. It never mutates the program model.
type Scanner struct {
	sources     SiteSource
	classifier  *match.Classifier
	concurrency int
	logger      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithConcurrency sets how many files are scanned at once.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewScanner creates a Scanner.
func NewScanner(sources SiteSource, classifier *match.Classifier, opts ...Option) *Scanner {
	s := &Scanner{
		sources:     sources,
		classifier:  classifier,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path        string
	Findings    []Finding
	Diagnostics Diagnostics
}

// ScanFile scans the sites of one file. The file version and ctx are checked
// before every site: the scan stops with ErrDocumentChanged as soon as the
// file moves, or with the context error when ctx is done.
func (s *Scanner) ScanFile(ctx context.Context, filePath string) (FileResult, error) {
	sites, version, err := s.sources.Sites(filePath)
	if err != nil {
		return FileResult{}, fmt.Errorf("scan %s: %w", filePath, err)
	}

	res := FileResult{Path: filePath}

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return FileResult{}, err
		}

		if err := s.unchanged(filePath, version); err != nil {
			return FileResult{}, err
		}

		if reason := skipReason(site); reason != "" {
			s.logger.Debug("site skipped", "site", location(site), "reason", reason)
			continue
		}

		verdict := s.classifier.Classify(site.Expr.Type, site.Target)
		pair := verdict.SourceType + " -> " + verdict.TargetType

		switch verdict.Verdict {
		case match.VerdictNeedsConversion:
			fixes := fixesFor(site)

			labels := make([]string, len(fixes))
			for i, fx := range fixes {
				labels[i] = fx.Label
			}

			res.Findings = append(res.Findings, Finding{
				ID:      FindingID(site),
				Site:    site,
				Source:  site.Expr.Type,
				Target:  site.Target,
				Message: message(site),
				Fixes:   fixes,
			})
			res.Diagnostics.AddWarning(CodeNeedsConversion, verdict.Reason, pair, location(site), labels...)
		default:
			res.Diagnostics.AddInfo(verdict.Verdict.String(), verdict.Reason, pair, location(site))
		}
	}

	if err := s.unchanged(filePath, version); err != nil {
		return FileResult{}, err
	}

	return res, nil
}

// unchanged fails with ErrDocumentChanged once the file has moved past the
// version its sites were read at.
func (s *Scanner) unchanged(filePath string, version int64) error {
	current, err := s.sources.Version(filePath)
	if err != nil {
		return fmt.Errorf("scan %s: %w", filePath, err)
	}

	if current != version {
		return fmt.Errorf("%s (version %d, now %d): %w", filePath, version, current, ErrDocumentChanged)
	}

	return nil
}

// ScanFiles scans files concurrently and, once every file scanned cleanly,
// reports the findings to r in file order. Any failure discards all results
// and reports nothing.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string, r Reporter) (Diagnostics, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, p := range paths {
		g.Go(func() error {
			res, err := s.ScanFile(gctx, p)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var diags Diagnostics
		diags.AddError(CodeScanFailed, err.Error(), "", "")

		return diags, err
	}

	var diags Diagnostics

	for _, res := range results {
		diags.Merge(res.Diagnostics)

		for _, f := range res.Findings {
			if r != nil {
				r.ReportFinding(f.Site, f.Message, f.Fixes...)
			}
		}
	}

	s.logger.Debug("scan finished", "files", len(paths), "diagnostics", diags.Len())

	return diags, nil
}

func skipReason(site model.Site) string {
	switch {
	case site.InLambda:
		return "return inside a closure"
	case site.Missing:
		return "declaration without initializer"
	case site.Literal:
		return "literal initializer"
	case site.Expr == nil || !site.Expr.Type.IsClass():
		return "expression type is not a class"
	case !site.Target.IsClass():
		return "target type is not a class"
	default:
		return ""
	}
}

func message(site model.Site) string {
	return fmt.Sprintf("%s is not assignable to %s; a converter can be generated and used",
		site.Expr.Type, site.Target)
}

func fixesFor(site model.Site) []SuggestedFix {
	fixes := []SuggestedFix{{
		Strategy: holder.KindScopeWide,
		Label:    "Generate converter and use it",
	}}

	if site.Enclosing != nil {
		fixes = append(fixes, SuggestedFix{
			Strategy: holder.KindEnclosing,
			Label:    "Generate converter nested in " + site.Enclosing.LocalName() + " and use it",
		})
	}

	return fixes
}
