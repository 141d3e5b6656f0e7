package loader

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
)

// ProgressFunc receives byte progress of a model load. It is called from the loading goroutine
// zero or more times. bytesTotal grows when the decoder opens further files referenced by the model.
type ProgressFunc func(bytesLoaded, bytesTotal int64)

// LogProgress returns a ProgressFunc that logs whole-percent steps of the named load, e.g. "42% loaded".
//
// Parameters:
//   - name: identifies the load in the log record
//
// Returns:
//   - ProgressFunc: the logging progress sink
func LogProgress(name string) ProgressFunc {
	last := -1
	var mu sync.Mutex
	return func(loaded, total int64) {
		if total <= 0 {
			return
		}
		pct := int(loaded * 100 / total)
		mu.Lock()
		defer mu.Unlock()
		if pct == last {
			return
		}
		last = pct
		slog.Info("Model progress",
			"model", name,
			"progress", humanize.FtoaWithDigits(float64(loaded)/float64(total)*100, 1)+"% loaded",
			"loaded", humanize.IBytes(uint64(loaded)),
			"total", humanize.IBytes(uint64(total)),
		)
	}
}

// progressTracker aggregates bytes read across every file a load opens.
type progressTracker struct {
	mu         sync.Mutex
	ctx        context.Context
	loaded     int64
	total      int64
	onProgress ProgressFunc
}

func newProgressTracker(ctx context.Context, onProgress ProgressFunc) *progressTracker {
	return &progressTracker{ctx: ctx, onProgress: onProgress}
}

func (p *progressTracker) addTotal(n int64) {
	p.mu.Lock()
	p.total += n
	loaded, total := p.loaded, p.total
	p.mu.Unlock()
	p.report(loaded, total)
}

func (p *progressTracker) addLoaded(n int64) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	p.loaded += n
	loaded, total := p.loaded, max(p.total, p.loaded)
	p.mu.Unlock()
	p.report(loaded, total)
}

func (p *progressTracker) report(loaded, total int64) {
	if p.onProgress != nil {
		p.onProgress(loaded, total)
	}
}

// reader wraps r so reads are counted and stop once the load's context is cancelled.
func (p *progressTracker) reader(r io.Reader) io.Reader {
	return &countingReader{r: r, p: p}
}

type countingReader struct {
	r io.Reader
	p *progressTracker
}

func (c *countingReader) Read(b []byte) (int, error) {
	if err := c.p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(b)
	c.p.addLoaded(int64(n))
	return n, err
}

// countingFS counts bytes read from every file the glTF decoder opens for buffers and images.
type countingFS struct {
	fsys fs.FS
	p    *progressTracker
}

func (c countingFS) Open(name string) (fs.File, error) {
	if err := c.p.ctx.Err(); err != nil {
		return nil, err
	}
	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil {
		c.p.addTotal(info.Size())
	}
	return &countingFile{File: f, r: c.p.reader(f)}, nil
}

type countingFile struct {
	fs.File
	r io.Reader
}

func (c *countingFile) Read(b []byte) (int, error) {
	return c.r.Read(b)
}
