// Package logger implements the asynchronous, wire-format logger: a
// background goroutine owns a file and a ring of tagged log elements: the
// hot-path side never blocks on I/O, it only pushes primitive values onto
// a queue (ring.Queue from this module).
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/lyrastone-labs/matchcore/ring"
)

// logType tags which union member an element carries.
type logType int8

const (
	typeChar logType = iota
	typeInt32
	typeUint32
	typeInt64
	typeUint64
	typeFloat64
	typeString
)

// element is one queued log unit: either a single character (the format
// front-end pushes a format string one byte at a time) or a substituted
// argument.
type element struct {
	kind logType
	c    byte
	i32  int32
	u32  uint32
	i64  int64
	u64  uint64
	f64  float64
	s    string
}

const queueCapacity = 1 << 16

// flushInterval is the background drain loop's periodic flush cadence.
const flushInterval = 10 * time.Millisecond

// Logger drains a ring queue of log elements into a file on a dedicated
// background goroutine. Construct with New; call Close to drain and stop.
type Logger struct {
	fileName string
	file     *os.File
	queue    *ring.Queue[element]
	running  chan struct{}
	stopped  chan struct{}
	done     chan struct{}
}

// New opens fileName (creating/truncating it) and starts the background
// drain loop. Failure to open the file is fatal.
func New(fileName string) *Logger {
	f, err := os.Create(fileName)
	if err != nil {
		panic(fmt.Sprintf("logger: could not open log file %s: %v", fileName, err))
	}
	l := &Logger{
		fileName: fileName,
		file:     f,
		queue:    ring.New[element](queueCapacity),
		running:  make(chan struct{}),
		stopped:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.drain()
	<-l.running
	return l
}

func (l *Logger) drain() {
	close(l.running)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopped:
			l.drainOnce()
			l.file.Sync()
			l.file.Close()
			close(l.done)
			return
		case <-ticker.C:
			l.drainOnce()
			l.file.Sync()
		}
	}
}

func (l *Logger) drainOnce() {
	for {
		e := l.queue.NextRead()
		if e == nil {
			return
		}
		writeElement(l.file, e)
		l.queue.AdvanceRead()
	}
}

func writeElement(w *os.File, e *element) {
	switch e.kind {
	case typeChar:
		w.Write([]byte{e.c})
	case typeInt32:
		fmt.Fprintf(w, "%d", e.i32)
	case typeUint32:
		fmt.Fprintf(w, "%d", e.u32)
	case typeInt64:
		fmt.Fprintf(w, "%d", e.i64)
	case typeUint64:
		fmt.Fprintf(w, "%d", e.u64)
	case typeFloat64:
		fmt.Fprintf(w, "%g", e.f64)
	case typeString:
		w.WriteString(e.s)
	}
}

func (l *Logger) push(e element) {
	*l.queue.NextWrite() = e
	l.queue.AdvanceWrite()
}

func (l *Logger) pushChar(c byte) { l.push(element{kind: typeChar, c: c}) }
func (l *Logger) pushString(s string) {
	for i := 0; i < len(s); i++ {
		l.pushChar(s[i])
	}
}

// pushValue pushes one substituted argument, tagged by its Go type.
func (l *Logger) pushValue(v any) {
	switch x := v.(type) {
	case int:
		l.push(element{kind: typeInt64, i64: int64(x)})
	case int32:
		l.push(element{kind: typeInt32, i32: x})
	case int64:
		l.push(element{kind: typeInt64, i64: x})
	case uint:
		l.push(element{kind: typeUint64, u64: uint64(x)})
	case uint32:
		l.push(element{kind: typeUint32, u32: x})
	case uint64:
		l.push(element{kind: typeUint64, u64: x})
	case float32:
		l.push(element{kind: typeFloat64, f64: float64(x)})
	case float64:
		l.push(element{kind: typeFloat64, f64: x})
	case string:
		l.pushString(x)
	case byte:
		l.pushChar(x)
	case fmt.Stringer:
		l.pushString(x.String())
	default:
		l.pushString(fmt.Sprint(x))
	}
}

// Log pushes a formatted message onto the queue for the background
// goroutine to write out. format uses '%' as a placeholder and '%%' as an
// escaped literal percent.
//
// A placeholder with no matching argument, or an argument with no matching
// placeholder, is fatal: a format/argument arity mismatch is a programmer
// error in the calling code, not a runtime condition to paper over.
func (l *Logger) Log(format string, args ...any) {
	argIdx := 0
	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			l.pushChar(c)
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			l.pushChar('%')
			i += 2
			continue
		}
		if argIdx >= len(args) {
			panic(fmt.Sprintf("logger: missing argument for placeholder in format %q", format))
		}
		l.pushValue(args[argIdx])
		argIdx++
		i++
	}
	if argIdx != len(args) {
		panic(fmt.Sprintf("logger: extra arguments provided to Log(%q)", format))
	}
}

// Close waits for the queue to drain, then stops the background goroutine
// and closes the file.
func (l *Logger) Close() {
	for l.queue.Size() > 0 {
		time.Sleep(time.Millisecond)
	}
	close(l.stopped)
	<-l.done
}

// Fatal logs format/args (if l is non-nil) and then panics with the same
// message. It is the one place every component routes an unrecoverable
// precondition violation through, so a fatal condition is always both
// recorded and loud. l may be nil, in which case only the panic fires.
func Fatal(l *Logger, format string, args ...any) {
	if l != nil {
		l.Log(format, args...)
		l.Close()
	}
	panic(fmt.Sprintf(rewriteFormat(format), args...))
}

// rewriteFormat rewrites this package's '%'-placeholder format into one
// fmt.Sprintf accepts, so Fatal's panic message reads the same as what
// was just logged.
func rewriteFormat(format string) string {
	out := make([]byte, 0, len(format))
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			out = append(out, '%', '%')
			i++
			continue
		}
		out = append(out, '%', 'v')
	}
	return string(out)
}
