package fix

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davecgh/go-spew/spew"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/diagnostic"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/match"
	"assembler-generator/internal/model"
	"assembler-generator/internal/rewrite"
	"assembler-generator/internal/synth"
	"assembler-generator/internal/workspace"
)

// Pipeline stages, used in skip reasons and logs.
const (
	StageLocate     = "locate"
	StageClassify   = "classify"
	StageUnwrap     = "unwrap"
	StageResolve    = "resolve"
	StageSynthesize = "synthesize"
	StageRewrite    = "rewrite"
)

// dumper prints holder methods without following back-references into the
// rest of the model.
var dumper = spew.ConfigState{Indent: "  ", MaxDepth: 3, DisablePointerAddresses: true, SortKeys: true}

// Settings configures every stage of the pipeline.
type Settings struct {
	Ignore            match.IgnoreSet
	MaxContainerDepth int
	Holder            holder.Settings
	Synth             synth.Settings
	Workspace         workspace.Options
}

// DefaultSettings returns the default pipeline settings.
func DefaultSettings() Settings {
	return Settings{
		Ignore:            match.DefaultIgnoreSet(),
		MaxContainerDepth: match.DefaultMaxContainerDepth,
		Holder:            holder.DefaultSettings(),
		Synth:             synth.DefaultSettings(),
		Workspace:         workspace.DefaultOptions(),
	}
}

// Outcome is the result of applying one fix. Exactly one of Call and
// Skipped is set.
type Outcome struct {
	Holder  *model.Decl
	Method  *model.Method
	Call    string
	Created bool
	// Adopted is set when an existing unmarked declaration became the holder.
	Adopted bool
	// NearMisses are marked holders with names close to the holder's.
	NearMisses []string
	Added      []synth.Purpose
	// Stage and Skipped explain why nothing was rewritten.
	Stage   string
	Skipped string
}

// Applied reports whether the call site was rewritten.
func (o Outcome) Applied() bool {
	return o.Skipped == ""
}

func skipped(stage string, reason any) Outcome {
	return Outcome{Stage: stage, Skipped: fmt.Sprint(reason)}
}

// Orchestrator runs Classify, Resolve, Synthesize and Rewrite for one call
// site. Every failure ends the run with a skipped Outcome; nothing is
// returned as an error.
type Orchestrator struct {
	program     model.Program
	classifier  *match.Classifier
	locator     *workspace.Locator
	resolvers   map[holder.Kind]holder.Resolver
	synthesizer *synth.Synthesizer
	rewriter    *rewrite.Rewriter
	section     *WriteSection
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger of the orchestrator and of every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithWriteSection replaces the process-wide write section.
func WithWriteSection(section *WriteSection) Option {
	return func(o *Orchestrator) {
		o.section = section
	}
}

// New creates an Orchestrator over program.
func New(program model.Program, settings Settings, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		program: program,
		section: processSection,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	o.classifier = match.NewClassifier(program, settings.Ignore,
		match.WithMaxContainerDepth(settings.MaxContainerDepth))
	o.locator = workspace.New(program, settings.Workspace, workspace.WithLogger(o.logger))
	o.resolvers = map[holder.Kind]holder.Resolver{
		holder.KindScopeWide: holder.NewScopeWide(program, o.locator, settings.Holder, holder.WithLogger(o.logger)),
		holder.KindEnclosing: holder.NewEnclosing(program, settings.Holder, holder.WithLogger(o.logger)),
	}
	o.synthesizer = synth.New(program, settings.Synth, synth.WithLogger(o.logger))
	o.rewriter = rewrite.New(program, settings.Holder.Singleton, rewrite.WithLogger(o.logger))

	return o
}

// Classifier returns the classifier used by the pipeline, for scanning.
func (o *Orchestrator) Classifier() *match.Classifier {
	return o.classifier
}

// Apply applies fix to the call site of finding.
func (o *Orchestrator) Apply(finding diagnostic.Finding, fix diagnostic.SuggestedFix) Outcome {
	return o.Convert(finding.Site, fix.Strategy)
}

// Convert rewrites site to call a converter from its expression type to its
// target type, creating the holder and methods as needed. The run holds the
// write section from start to end.
func (o *Orchestrator) Convert(site model.Site, strategy holder.Kind) Outcome {
	var out Outcome

	o.section.Run(func() {
		out = o.convert(site, strategy)
	})

	if out.Applied() {
		o.logger.Info("fix applied", "site", site.ID, "holder", out.Holder.Qualified(),
			"method", out.Method.Name, "created", out.Created)
	} else {
		o.logger.Debug("fix skipped", "site", site.ID, "stage", out.Stage, "reason", out.Skipped)
	}

	return out
}

func (o *Orchestrator) convert(snapshot model.Site, strategy holder.Kind) Outcome {
	site, err := o.refresh(snapshot)
	if err != nil {
		return skipped(StageLocate, err)
	}

	source, target := site.Expr.Type, site.Target

	verdict := o.classifier.Classify(source, target)
	if !verdict.NeedsConversion() {
		return skipped(StageClassify, verdict.Verdict.String()+": "+verdict.Reason)
	}

	pair, err := synth.Unwrap(o.program, source, target)
	if err != nil {
		return skipped(StageUnwrap, err)
	}

	resolver, ok := o.resolvers[strategy]
	if !ok {
		return skipped(StageResolve, fmt.Sprintf("unknown strategy %s", strategy))
	}

	res, err := resolver.Resolve(holder.Request{File: site.File, Enclosing: site.Enclosing, Target: pair.Target})
	if err != nil {
		return skipped(StageResolve, err)
	}

	result, err := o.synthesizer.Synthesize(res.Holder, pair)
	if err != nil {
		return skipped(StageSynthesize, err)
	}

	method := result.Primary()
	if method == nil {
		return skipped(StageSynthesize, "no method produced")
	}

	call, err := o.rewriter.Rewrite(site, res.Holder, method)
	if err != nil {
		return skipped(StageRewrite, err)
	}

	if o.logger.Enabled(context.Background(), slog.LevelDebug) {
		o.logger.Debug("holder state", "holder", res.Holder.Qualified(), "methods", dumper.Sdump(res.Holder.Methods))
	}

	return Outcome{
		Holder:     res.Holder,
		Method:     method,
		Call:       call,
		Created:    res.Created,
		Adopted:    res.Adopted,
		NearMisses: res.NearMisses,
		Added:      result.Added,
	}
}

// refresh re-reads site from the program so the run sees the expression as
// it is now rather than as it was when the site was reported.
func (o *Orchestrator) refresh(site model.Site) (model.Site, error) {
	if site.File == nil {
		return model.Site{}, fmt.Errorf("site %s has no file: %w", site.ID, model.ErrNotFound)
	}

	sites, _, err := o.program.Sites(site.File.Path)
	if err != nil {
		return model.Site{}, err
	}

	for _, s := range sites {
		if s.ID == site.ID {
			if s.Expr == nil || !s.Expr.Type.IsClass() || !s.Target.IsClass() {
				return model.Site{}, fmt.Errorf("site %s: %w", site.ID, analyze.ErrUnresolved)
			}

			return s, nil
		}
	}

	return model.Site{}, fmt.Errorf("site %s in %s: %w", site.ID, site.File.Path, model.ErrNotFound)
}
