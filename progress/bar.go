package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/andyle182810/tensorci/formdata"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

const (
	defaultWidth    = 30
	defaultInterval = 100 * time.Millisecond
	defaultLabel    = "Uploading"
)

type Option func(*Bar)

func WithWidth(width int) Option {
	return func(b *Bar) {
		if width > 0 {
			b.width = width
		}
	}
}

func WithLabel(label string) Option {
	return func(b *Bar) {
		b.label = label
	}
}

// WithInterval sets the minimum time between redraws. Zero redraws on every
// update.
func WithInterval(interval time.Duration) Option {
	return func(b *Bar) {
		if interval <= 0 {
			b.limiter = &rate.Sometimes{Every: 1} //nolint:exhaustruct

			return
		}

		b.limiter = &rate.Sometimes{Interval: interval} //nolint:exhaustruct
	}
}

// Bar draws a single-line upload indicator. Intermediate redraws are
// throttled; the final state is always drawn once.
type Bar struct {
	out     io.Writer
	label   string
	width   int
	limiter *rate.Sometimes

	mu       sync.Mutex
	finished bool
}

func New(out io.Writer, opts ...Option) *Bar {
	bar := &Bar{
		out:      out,
		label:    defaultLabel,
		width:    defaultWidth,
		limiter:  &rate.Sometimes{Interval: defaultInterval}, //nolint:exhaustruct
		mu:       sync.Mutex{},
		finished: false,
	}

	for _, opt := range opts {
		opt(bar)
	}

	return bar
}

func (b *Bar) Update(p formdata.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finished {
		return
	}

	if p.Done() {
		b.finished = true
		fmt.Fprintf(b.out, "\r%s\n", Render(b.label, p, b.width))

		return
	}

	b.limiter.Do(func() {
		fmt.Fprintf(b.out, "\r%s", Render(b.label, p, b.width))
	})
}

func (b *Bar) Callback() formdata.ProgressFunc {
	return b.Update
}

// Render formats one frame, e.g. "Uploading [#####-----] 50% 1.0 kB / 2.0 kB".
func Render(label string, p formdata.Progress, width int) string {
	if p.TotalBytes < 0 {
		return fmt.Sprintf("%s %s", label, humanize.Bytes(uint64(max(p.BytesRead, 0))))
	}

	fraction := p.Fraction()
	filled := int(fraction * float64(width))

	return fmt.Sprintf("%s [%s%s] %3.0f%% %s / %s",
		label,
		strings.Repeat("#", filled),
		strings.Repeat("-", width-filled),
		fraction*100,
		humanize.Bytes(uint64(max(p.BytesRead, 0))),
		humanize.Bytes(uint64(p.TotalBytes)),
	)
}
