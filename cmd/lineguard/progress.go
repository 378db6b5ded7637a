package lineguard

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

// progressBar draws a single-line bar that is redrawn in place. Increment is
// safe to call from the checking workers.
type progressBar struct {
	mu    sync.Mutex
	w     io.Writer
	model progress.Model
	total int
	done  int
	drawn int
}

func newProgressBar(w io.Writer, total int) *progressBar {
	p := &progressBar{
		w:     w,
		model: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
	p.draw()
	return p
}

func (p *progressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	// Redraw at most ~100 times regardless of file count.
	if step := p.total / 100; step > 1 && p.done%step != 0 && p.done != p.total {
		return
	}
	p.draw()
}

func (p *progressBar) draw() {
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total)
	}
	line := fmt.Sprintf("Checking files... %s %d/%d", p.model.ViewAs(pct), p.done, p.total)
	fmt.Fprintf(p.w, "\r%s", line)
	p.drawn = len(line)
}

// Clear erases the bar so later output starts on a clean line.
func (p *progressBar) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn > 0 {
		fmt.Fprint(p.w, "\r\x1b[2K")
		p.drawn = 0
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
