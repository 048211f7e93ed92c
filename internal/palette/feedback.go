package palette

import "time"

// CopyKind names what a copy action copied; each kind has its own suggested
// acknowledgement window.
type CopyKind string

const (
	CopyPaletteHex    CopyKind = "palette-hex"
	CopyGradientColor CopyKind = "gradient-color"
	CopyGradientCSS   CopyKind = "gradient-css"
)

var ackDurations = map[CopyKind]time.Duration{
	CopyPaletteHex:    1000 * time.Millisecond,
	CopyGradientColor: 1000 * time.Millisecond,
	CopyGradientCSS:   2000 * time.Millisecond,
}

func AckDuration(kind CopyKind) time.Duration {
	if duration, ok := ackDurations[kind]; ok {
		return duration
	}
	return time.Second
}

// CopyRequest is handed to the clipboard collaborator, which performs the
// write and owns any timer.
type CopyRequest struct {
	Text        string        `json:"text"`
	Kind        CopyKind      `json:"kind"`
	AckDuration time.Duration `json:"ackDuration"`
}

func NewCopyRequest(text string, kind CopyKind) CopyRequest {
	return CopyRequest{Text: text, Kind: kind, AckDuration: AckDuration(kind)}
}

// Acknowledgements maps copy targets to the instant their "copied" indicator
// expires. Methods never mutate the receiver.
type Acknowledgements map[string]time.Time

// Acknowledge returns a copy with target's deadline set to now+duration. A
// repeated copy replaces the earlier deadline.
func (a Acknowledgements) Acknowledge(target string, now time.Time, duration time.Duration) Acknowledgements {
	next := make(Acknowledgements, len(a)+1)
	for key, deadline := range a {
		next[key] = deadline
	}
	next[target] = now.Add(duration)
	return next
}

// IsCopied reports whether target's indicator should read "copied" at now.
func (a Acknowledgements) IsCopied(target string, now time.Time) bool {
	deadline, ok := a[target]
	return ok && now.Before(deadline)
}

func (a Acknowledgements) Prune(now time.Time) Acknowledgements {
	next := make(Acknowledgements, len(a))
	for key, deadline := range a {
		if now.Before(deadline) {
			next[key] = deadline
		}
	}
	return next
}

// NextExpiry returns the earliest deadline still in the future.
func (a Acknowledgements) NextExpiry(now time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, deadline := range a {
		if !now.Before(deadline) {
			continue
		}
		if !found || deadline.Before(earliest) {
			earliest = deadline
			found = true
		}
	}
	return earliest, found
}
