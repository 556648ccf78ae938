package decompress

import (
	"io"
	"sync"

	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// worker bridges a pull-based io.Reader (zlib or lzma, which read on
// their own schedule and block when there is nothing ready) to Feed's
// push model. It owns a single mutex guarding both the pending-input
// queue (read by the worker goroutine via Read) and the
// produced-output queue (written by the worker goroutine, drained by
// Feed) so that a state change on either side can wake whichever side
// is waiting on it.
type worker struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte // unconsumed input pushed by Feed
	waiting bool   // the worker goroutine is blocked in Read wanting more input
	closed  bool   // Close was called; Read should give up and return io.EOF

	produced []byte // decompressed output not yet collected by Feed
	finished bool
	err      *swferr.Error

	done chan struct{}
}

// newWorker starts the worker goroutine, which constructs the
// pull-based reader via build (run on the goroutine itself, since
// constructing some of these readers blocks reading a header) and
// copies its output into produced until it returns io.EOF or an error.
func newWorker(build func(io.Reader) (io.Reader, error), errCode swferr.Code, errContext string) *worker {
	w := &worker{done: make(chan struct{})}
	w.cond = sync.NewCond(&w.mu)
	go w.run(build, errCode, errContext)
	return w
}

// Read implements io.Reader against the pending queue, blocking until
// Feed pushes more input.
func (w *worker) Read(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.pending) == 0 && !w.closed {
		w.waiting = true
		w.cond.Broadcast()
		w.cond.Wait()
	}
	w.waiting = false
	if len(w.pending) == 0 && w.closed {
		return 0, io.EOF
	}
	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

func (w *worker) run(build func(io.Reader) (io.Reader, error), errCode swferr.Code, errContext string) {
	defer close(w.done)
	r, err := build(w)
	if err != nil {
		w.fail(swferr.Errorf(errCode, "%s: %v", errContext, err))
		return
	}
	scratch := make([]byte, 32*1024)
	for {
		n, rerr := r.Read(scratch)
		if n > 0 {
			w.mu.Lock()
			w.produced = append(w.produced, scratch[:n]...)
			w.cond.Broadcast()
			w.mu.Unlock()
		}
		switch {
		case rerr == io.EOF:
			w.mu.Lock()
			w.finished = true
			w.cond.Broadcast()
			w.mu.Unlock()
			return
		case rerr != nil:
			w.fail(swferr.Errorf(errCode, "%s: %v", errContext, rerr))
			return
		}
	}
}

func (w *worker) fail(err *swferr.Error) {
	w.mu.Lock()
	w.err = err
	w.finished = true
	w.cond.Broadcast()
	w.mu.Unlock()
}

// feed pushes newInput onto the pending queue and drains whatever the
// worker goroutine produces from it into out, returning once the
// worker is blocked waiting for more input, has finished, or has
// failed.
func (w *worker) feed(newInput []byte, out *bitbuffer.Buffer) (Status, *swferr.Error) {
	w.mu.Lock()
	if len(newInput) > 0 {
		w.pending = append(w.pending, newInput...)
		w.waiting = false
		w.cond.Broadcast()
	}
	for {
		if len(w.produced) > 0 {
			chunk := w.produced
			w.produced = nil
			w.mu.Unlock()
			if err := appendGrowing(out, chunk); err != nil {
				return NeedMoreInput, err
			}
			w.mu.Lock()
			continue
		}
		if w.err != nil {
			err := w.err
			w.mu.Unlock()
			return NeedMoreInput, err
		}
		if w.finished {
			w.mu.Unlock()
			return Finished, nil
		}
		if w.waiting && len(w.pending) == 0 {
			w.mu.Unlock()
			return NeedMoreInput, nil
		}
		w.cond.Wait()
	}
}

// close unblocks a Read the worker goroutine may be waiting in and
// waits for the goroutine to exit. Safe to call more than once.
func (w *worker) close() error {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
	return nil
}
