package clipboardx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderKeepsWrites(t *testing.T) {
	var recorder Recorder
	assert.Equal(t, "", recorder.Last())

	assert.NoError(t, recorder.WriteText("#ff0000"))
	assert.NoError(t, recorder.WriteText("linear-gradient(90deg, #000000 0%, #ffffff 100%)"))

	assert.Equal(t, []string{"#ff0000", "linear-gradient(90deg, #000000 0%, #ffffff 100%)"}, recorder.Texts())
	assert.Equal(t, "linear-gradient(90deg, #000000 0%, #ffffff 100%)", recorder.Last())
}

func TestRecorderFailure(t *testing.T) {
	boom := errors.New("boom")
	recorder := &Recorder{Err: boom}

	var writer Writer = recorder
	assert.ErrorIs(t, writer.WriteText("#000000"), boom)
	assert.Empty(t, recorder.Texts())
}
