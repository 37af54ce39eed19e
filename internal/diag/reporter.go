package diag

import "sync"

// Reporter is the minimal contract passes use to emit diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter stores diagnostics in a Bag. Safe for concurrent use.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func (r *BagReporter) Report(d Diagnostic) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	r.Bag.Add(d)
	r.mu.Unlock()
}

// SourceReporter stamps every diagnostic with a definitions path before
// forwarding it.
type SourceReporter struct {
	Path string
	Next Reporter
}

func (r SourceReporter) Report(d Diagnostic) {
	if r.Next == nil {
		return
	}
	if d.Source == "" {
		d.Source = r.Path
	}
	r.Next.Report(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
