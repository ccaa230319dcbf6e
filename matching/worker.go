package matching

import "github.com/lyrastone-labs/matchcore/logger"

// worker runs one named, long-lived goroutine with a start-ready signal
// and a clean stop/drain handshake. The matcher's dispatch loop runs on
// one; the relay goroutines in cmd/exchange and the logger's drain loop
// are started separately and do not use it.
type worker struct {
	name string
	log  *logger.Logger
	stop chan struct{}
	done chan struct{}
}

// startWorker launches run in its own goroutine, blocking until that
// goroutine has actually started, and returns a handle whose Stop signals
// the stop channel passed to run and waits for a clean exit.
func startWorker(name string, log *logger.Logger, run func(stop <-chan struct{})) *worker {
	w := &worker{
		name: name,
		log:  log,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ready := make(chan struct{})
	go func() {
		close(ready)
		run(w.stop)
		close(w.done)
	}()
	<-ready
	if log != nil {
		log.Log("worker % started\n", name)
	}
	return w
}

// Stop signals the worker's run loop to exit and blocks until it has.
func (w *worker) Stop() {
	close(w.stop)
	<-w.done
	if w.log != nil {
		w.log.Log("worker % stopped\n", w.name)
	}
}
