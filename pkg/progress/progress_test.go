package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Step("installing packages...")
	p.Warn("could not open %s", "http://localhost:8080")
	p.Done("migrations applied")

	assert.Equal(t,
		"› installing packages...\n! could not open http://localhost:8080\n✓ migrations applied\n",
		buf.String())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Step("nothing") })
}
