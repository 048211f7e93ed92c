package palette

import (
	"testing"
	"time"
)

func TestAcknowledgementsExpire(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	acks := Acknowledgements{}.Acknowledge("#ff0000", start, AckDuration(CopyPaletteHex))

	if !acks.IsCopied("#ff0000", start) {
		t.Fatalf("target should read copied right after the copy")
	}
	if !acks.IsCopied("#ff0000", start.Add(999*time.Millisecond)) {
		t.Fatalf("target should still read copied before the window closes")
	}
	if acks.IsCopied("#ff0000", start.Add(time.Second)) {
		t.Fatalf("target should stop reading copied once the window closes")
	}
	if acks.IsCopied("#00ff00", start) {
		t.Fatalf("other targets must not read copied")
	}
}

func TestAcknowledgeExtendsAndDoesNotMutate(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := Acknowledgements{}.Acknowledge("css", start, AckDuration(CopyGradientCSS))
	second := first.Acknowledge("css", start.Add(1500*time.Millisecond), AckDuration(CopyGradientCSS))

	at := start.Add(2500 * time.Millisecond)
	if first.IsCopied("css", at) {
		t.Fatalf("original acknowledgements were mutated")
	}
	if !second.IsCopied("css", at) {
		t.Fatalf("repeated copy should restart the window")
	}

	next, ok := second.NextExpiry(start)
	if !ok || !next.Equal(start.Add(3500*time.Millisecond)) {
		t.Fatalf("unexpected next expiry %v (ok=%v)", next, ok)
	}
	if pruned := second.Prune(start.Add(4 * time.Second)); len(pruned) != 0 {
		t.Fatalf("expected every acknowledgement to be pruned, got %v", pruned)
	}
}

func TestCopyRequestDurations(t *testing.T) {
	t.Parallel()

	cases := map[CopyKind]time.Duration{
		CopyPaletteHex:    time.Second,
		CopyGradientColor: time.Second,
		CopyGradientCSS:   2 * time.Second,
	}
	for kind, want := range cases {
		request := NewCopyRequest("x", kind)
		if request.AckDuration != want {
			t.Fatalf("%s: ack duration %v, want %v", kind, request.AckDuration, want)
		}
	}
}
