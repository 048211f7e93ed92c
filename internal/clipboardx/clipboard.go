package clipboardx

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

var ErrUnavailable = errors.New("system clipboard is unavailable")

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System writes to the desktop clipboard.
type System struct{}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

func (System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// Recorder keeps every write in memory. Setting Err makes writes fail.
type Recorder struct {
	mu    sync.Mutex
	texts []string
	Err   error
}

func (r *Recorder) WriteText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.texts = append(r.texts, text)
	return nil
}

func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	texts := make([]string, len(r.texts))
	copy(texts, r.texts)
	return texts
}

func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}
