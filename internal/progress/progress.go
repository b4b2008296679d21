package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Tracker displays a progress bar when stdout is a TTY, line-by-line otherwise
type Tracker struct {
	mu      sync.Mutex
	total   int
	done    int
	failed  int
	skipped int
	current string
	isTTY   bool
}

// NewTracker creates a progress tracker for a run over total files
func NewTracker(total int) *Tracker {
	return &Tracker{
		total: total,
		isTTY: isTerminal(),
	}
}

func isTerminal() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

// Start prints the file currently being converted (non-TTY mode)
func (t *Tracker) Start(filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = filename
	if t.isTTY {
		t.render()
	} else {
		fmt.Printf("  [*] Converting: %s\n", filename)
	}
}

// Success marks a file as converted
func (t *Tracker) Success(filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	if t.isTTY {
		t.render()
	} else {
		fmt.Printf("  [+] %s: converted\n", filename)
	}
}

// Skip marks a file as skipped by the format filter or an existing output
func (t *Tracker) Skip(filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	t.skipped++
	if t.isTTY {
		t.render()
	} else {
		fmt.Printf("  [-] %s: skipped\n", filename)
	}
}

// Fail marks a file as failed
func (t *Tracker) Fail(filename string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	t.failed++
	if t.isTTY {
		t.render()
	} else {
		fmt.Printf("  [!] %s failed: %v\n", filename, err)
	}
}

// Finish clears the progress line (TTY mode)
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isTTY {
		// Clear the line
		fmt.Print("\r\033[K")
	}
}

func (t *Tracker) render() {
	barWidth := 30
	completed := t.done
	if t.total == 0 {
		return
	}
	filled := (completed * barWidth) / t.total
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">"
		bar += strings.Repeat(" ", barWidth-filled-1)
	}

	failStr := ""
	if t.failed > 0 {
		failStr = fmt.Sprintf(" | %d failed", t.failed)
	}

	line := fmt.Sprintf("\r  [%s] %d/%d | Converting: %s%s",
		bar, completed, t.total, t.current, failStr)

	// Truncate to terminal width if possible
	if len(line) > 100 {
		line = line[:100]
	}
	fmt.Print("\033[K" + line)
}
