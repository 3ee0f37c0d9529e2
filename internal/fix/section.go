package fix

import "sync"

// WriteSection serializes mutations of the program model. At most one
// function runs inside a section at a time.
type WriteSection struct {
	mu sync.Mutex
}

// Run calls fn while holding the section.
func (w *WriteSection) Run(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fn()
}

// processSection is the section shared by every Orchestrator that is not
// given its own.
var processSection = &WriteSection{}
