package output

import (
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}}{{counters . }} directory pairs {{string . "dir"}}`

// ProgressBar shows the number of directory pairs scanned so far
type ProgressBar struct {
	bar *pb.ProgressBar
}

// NewProgressBar creates a progress bar writing to w (stderr when nil)
func NewProgressBar(w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}

	bar := progressTemplate.New(0)
	bar.SetWriter(w)
	bar.SetRefreshRate(100 * time.Millisecond)
	bar.Set("prefix", "Scanning ")
	if !IsTerminal(w) {
		bar.Set(pb.Terminal, false)
		bar.Set(pb.Color, false)
	}

	return &ProgressBar{bar: bar}
}

// Start begins rendering
func (p *ProgressBar) Start() {
	p.bar.Start()
}

// Update records one more scanned directory pair; usable as a progress callback
func (p *ProgressBar) Update(dir string, scanned int) {
	p.bar.Set("dir", dir)
	p.bar.SetCurrent(int64(scanned))
}

// Current returns the last reported count
func (p *ProgressBar) Current() int64 {
	return p.bar.Current()
}

// Finish stops rendering and leaves the final count on screen
func (p *ProgressBar) Finish() {
	p.bar.Set("dir", "")
	p.bar.Finish()
}
