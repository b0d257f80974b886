package storage

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/meshsim/internal/sim"
)

const defaultFlushEvery = 120

// Recorder appends frame rows to a run's CSV as a sim.Observer. Rows are
// buffered and written in chunks; the header goes out with the first chunk.
type Recorder struct {
	dir  string
	meta RunMetadata
	file *os.File

	buf           []sim.FrameStats
	flushEvery    int
	headerWritten bool
	written       int
	err           error
}

func (r *Recorder) ID() string { return r.meta.ID }

// Err returns the first write error seen while observing frames.
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) OnFrame(f *sim.Frame) {
	if r.err != nil {
		return
	}
	r.buf = append(r.buf, f.Stats)
	if len(r.buf) >= r.flushEvery {
		r.err = r.Flush()
	}
}

func (r *Recorder) Flush() error {
	if len(r.buf) == 0 {
		return nil
	}
	if !r.headerWritten {
		if err := gocsv.Marshal(r.buf, r.file); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(r.buf, r.file); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
	}
	r.written += len(r.buf)
	r.buf = r.buf[:0]
	return nil
}

// Close flushes the remaining rows and rewrites the metadata with the final
// frame count and metrics.
func (r *Recorder) Close(metrics map[string]float64) error {
	err := r.err
	if err == nil {
		err = r.Flush()
	}
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	r.meta.Frames = r.written
	r.meta.Metrics = metrics
	return writeMetadata(r.dir, &r.meta)
}

// Finish closes the recorder with a run's metrics and wall time.
func (r *Recorder) Finish(result *sim.Result) error {
	r.meta.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000
	return r.Close(result.Metrics)
}
