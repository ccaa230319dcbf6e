package gateway

import (
	"testing"

	"github.com/lyrastone-labs/matchcore/domain"
)

func TestDecoderYieldsNothingBeforeFrameComplete(t *testing.T) {
	d := NewDecoder()
	d.Feed(make([]byte, domain.OMClientRequestSize-1))

	if _, ok := d.Next(); ok {
		t.Fatal("expected no frame before enough bytes arrived")
	}
	if d.Pending() != domain.OMClientRequestSize-1 {
		t.Fatalf("expected %d bytes pending, got %d", domain.OMClientRequestSize-1, d.Pending())
	}
}

func TestDecoderYieldsMultipleQueuedFrames(t *testing.T) {
	d := NewDecoder()
	want := []domain.OMClientRequest{
		{SeqNum: 0, Request: domain.MEClientRequest{ClientId: 1, OrderId: 10}},
		{SeqNum: 1, Request: domain.MEClientRequest{ClientId: 1, OrderId: 11}},
	}
	for _, f := range want {
		buf := make([]byte, domain.OMClientRequestSize)
		domain.PutOMClientRequest(buf, f)
		d.Feed(buf)
	}

	for i, w := range want {
		got, ok := d.Next()
		if !ok {
			t.Fatalf("frame %d: expected a frame, got none", i)
		}
		if got != w {
			t.Fatalf("frame %d: got %+v, want %+v", i, got, w)
		}
	}
	if _, ok := d.Next(); ok {
		t.Fatal("expected no more frames after draining both")
	}
}

func TestDecoderRetainsTrailingPartialFrame(t *testing.T) {
	d := NewDecoder()
	full := make([]byte, domain.OMClientRequestSize)
	domain.PutOMClientRequest(full, domain.OMClientRequest{Request: domain.MEClientRequest{OrderId: 1}})
	d.Feed(append(full, []byte{1, 2, 3}...))

	if _, ok := d.Next(); !ok {
		t.Fatal("expected the first complete frame")
	}
	if d.Pending() != 3 {
		t.Fatalf("expected 3 trailing bytes retained, got %d", d.Pending())
	}
}
