// Package fix applies a suggested fix to a call site.
//
// Orchestrator runs the pipeline Classify, Unwrap, Resolve, Synthesize,
// Rewrite for one site. Any stage may end the run; the Outcome then names
// the stage and the reason and the program model is left as it was.
// Runs hold a WriteSection for their whole duration so concurrent fixes on
// the same holder cannot interleave.
package fix
