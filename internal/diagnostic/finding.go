package diagnostic

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"assembler-generator/internal/analyze"
	"assembler-generator/internal/holder"
	"assembler-generator/internal/model"
)

// findingSpace namespaces finding IDs so the same site yields the same ID in
// every scan.
var findingSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("assembler-generator/finding"))

// SuggestedFix is a fix offered for a finding.
type SuggestedFix struct {
	Strategy holder.Kind
	Label    string
}

// Finding is an expression whose type must be converted before it can be
// assigned to its target.
type Finding struct {
	ID      uuid.UUID
	Site    model.Site
	Source  *analyze.TypeRef
	Target  *analyze.TypeRef
	Message string
	Fixes   []SuggestedFix
}

// Location returns path#site.
func (f Finding) Location() string {
	return location(f.Site)
}

// String returns a one-line description.
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Location(), f.Message)
}

// Fix returns the suggested fix using strategy.
func (f Finding) Fix(strategy holder.Kind) (SuggestedFix, bool) {
	for _, fix := range f.Fixes {
		if fix.Strategy == strategy {
			return fix, true
		}
	}

	return SuggestedFix{}, false
}

// FindingID returns the stable ID of a finding at site.
func FindingID(site model.Site) uuid.UUID {
	return uuid.NewSHA1(findingSpace, []byte(location(site)))
}

func location(site model.Site) string {
	if site.File == nil {
		return "#" + site.ID
	}

	return site.File.Path + "#" + site.ID
}

// Reporter receives findings.
type Reporter interface {
	ReportFinding(site model.Site, message string, fixes ...SuggestedFix)
}

// Collector is a Reporter that keeps findings in memory. It is safe for
// concurrent use.
type Collector struct {
	mu       sync.Mutex
	findings []Finding
}

// ReportFinding records a finding for site. Source and target are taken from
// the site.
func (c *Collector) ReportFinding(site model.Site, message string, fixes ...SuggestedFix) {
	c.Add(Finding{
		ID:      FindingID(site),
		Site:    site,
		Source:  site.Expr.Type,
		Target:  site.Target,
		Message: message,
		Fixes:   fixes,
	})
}

// Add records f.
func (c *Collector) Add(f Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.findings = append(c.findings, f)
}

// Findings returns the recorded findings in report order.
func (c *Collector) Findings() []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Finding, len(c.findings))
	copy(out, c.findings)

	return out
}

// Lookup returns the finding with id.
func (c *Collector) Lookup(id uuid.UUID) (Finding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range c.findings {
		if f.ID == id {
			return f, true
		}
	}

	return Finding{}, false
}
