package bulkimport

import "sync"

// ProgressSnapshot is a point-in-time view of a Progress.
type ProgressSnapshot struct {
	Running   bool `json:"running"`
	Processed int  `json:"processed"`
	Total     int  `json:"total"`
	Percent   int  `json:"percent"`
}

// Progress tracks processed district groups as a 0..100 percentage. It is safe
// for concurrent readers while the engine advances it.
type Progress struct {
	mu        sync.RWMutex
	running   bool
	processed int
	total     int
	percent   int
}

func NewProgress() *Progress {
	return &Progress{}
}

// Start resets the tracker for a run over total groups.
func (p *Progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.processed = 0
	p.total = total
	p.percent = 0
}

// Advance marks one more group as processed.
func (p *Progress) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.processed < p.total {
		p.processed++
	}
	if pct := roundPercent(p.processed, p.total); pct > p.percent {
		p.percent = pct
	}
}

// Finish forces the percentage to 100 and marks the run as done.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.processed = p.total
	p.percent = 100
}

func (p *Progress) Percent() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percent
}

func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ProgressSnapshot{
		Running:   p.running,
		Processed: p.processed,
		Total:     p.total,
		Percent:   p.percent,
	}
}

// roundPercent is round(processed/total*100) with halves rounded up.
func roundPercent(processed, total int) int {
	if total <= 0 {
		return 0
	}
	return (processed*200 + total) / (2 * total)
}
