package library

import "sync"

// Progress counts scanned videos. A nil Progress is valid and ignores updates.
type Progress struct {
	mu        sync.Mutex
	total     int
	processed int
	done      bool
}

func (p *Progress) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.total = 0
	p.processed = 0
	p.done = false
	p.mu.Unlock()
}

func (p *Progress) SetTotal(total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.total = total
	p.mu.Unlock()
}

func (p *Progress) Increment() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.processed++
	p.mu.Unlock()
}

func (p *Progress) MarkDone() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()
}

func (p *Progress) Snapshot() (processed, total int, done bool) {
	if p == nil {
		return 0, 0, true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.total, p.done
}
