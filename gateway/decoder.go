// Package gateway implements the glue between the wire and the exchange
// core: per-socket frame decoding, client-to-socket binding, per-client
// sequence tracking, and response re-framing. It has no opinion on the
// transport a frame arrived over — a Listener hands it raw bytes from
// whatever socket abstraction the deployment uses.
package gateway

import "github.com/lyrastone-labs/matchcore/domain"

// Decoder accumulates bytes fed to it across however many reads they
// arrived in and yields complete OMClientRequest frames as they become
// available. It is agnostic to how the input was chunked: one big Feed,
// or one byte at a time, produce the same frames in the same order.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends b to the decoder's accumulating buffer.
func (d *Decoder) Feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// Next returns the next complete frame and true, or a zero value and
// false if fewer than OMClientRequestSize bytes are currently buffered.
// Call it in a loop after every Feed to drain as many complete frames as
// are available.
func (d *Decoder) Next() (domain.OMClientRequest, bool) {
	if len(d.buf) < domain.OMClientRequestSize {
		return domain.OMClientRequest{}, false
	}
	req := domain.GetOMClientRequest(d.buf[:domain.OMClientRequestSize])
	remaining := len(d.buf) - domain.OMClientRequestSize
	copy(d.buf, d.buf[domain.OMClientRequestSize:])
	d.buf = d.buf[:remaining]
	return req, true
}

// Pending returns the number of bytes buffered that do not yet form a
// complete frame.
func (d *Decoder) Pending() int { return len(d.buf) }
