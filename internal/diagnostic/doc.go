// Package diagnostic finds call sites that need a synthesized converter.
//
// A Scanner walks the inspected sites of files (return values and local
// declaration initializers), classifies each (expression type, target type)
// pair and reports the ones needing a conversion as Findings, each with the
// fixes that can be applied. Scanning is read-only and aborts, discarding
// its results, when a scanned file changes underneath it.
//
// Key types:
//   - Finding / SuggestedFix: a reported site and its fixes
//   - Reporter / Collector: the sink receiving findings
//   - Scanner: concurrent, abortable scan over files
//   - Diagnostics: per-site notes (why a site was or was not reported)
package diagnostic
