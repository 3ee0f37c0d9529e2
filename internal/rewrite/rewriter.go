package rewrite

import (
	"fmt"
	"log/slog"

	"assembler-generator/internal/model"
)

// Rewriter replaces a call site's expression with a call through the
// holder's singleton.
type Rewriter struct {
	sources   model.Sources
	singleton string
	logger    *slog.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rewriter) {
		r.logger = logger
	}
}

// New creates a Rewriter. singleton is the name of the holder's singleton
// field.
func New(sources model.Sources, singleton string, opts ...Option) *Rewriter {
	r := &Rewriter{sources: sources, singleton: singleton, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Call returns the fully qualified call of method through holder's singleton
// with expr as the argument.
func (r *Rewriter) Call(holder *model.Decl, method *model.Method, expr string) string {
	return holder.Qualified() + "." + r.singleton + "." + method.Name + "(" + expr + ")"
}

// Rewrite replaces the expression of site with the call, whose type is the
// method's result, and shortens the holder reference in the site's file. It returns the text that replaced the
// expression, or "" when there is no holder or method to call.
func (r *Rewriter) Rewrite(site model.Site, holder *model.Decl, method *model.Method) (string, error) {
	if holder == nil || method == nil {
		r.logger.Debug("nothing to rewrite", "site", site.ID)
		return "", nil
	}

	if site.Expr == nil || site.File == nil {
		return "", fmt.Errorf("site %s has no expression: %w", site.ID, model.ErrNotFound)
	}

	call := r.Call(holder, method, site.Expr.Text)

	if err := r.sources.ReplaceExpression(site.Expr.ID, call); err != nil {
		return "", fmt.Errorf("rewrite %s: %w", site.ID, err)
	}

	if err := r.sources.RetypeExpression(site.Expr.ID, method.Result); err != nil {
		return "", fmt.Errorf("rewrite %s: %w", site.ID, err)
	}

	if err := r.sources.ShortenReferences(site.File.Path, holder.QualifiedName()); err != nil {
		return "", fmt.Errorf("shorten references in %s: %w", site.File.Path, err)
	}

	r.logger.Debug("rewrote call site", "site", site.ID, "call", call)

	return call, nil
}
