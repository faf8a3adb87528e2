package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/gantt/pkg/tuitest"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %d", 3)
	p.Infof("info")
	p.Warnf("careful")
	p.Errorf("broken: %s", "x")
	p.Section("Checks")
	p.CheckItem("resources", "")
	p.WarnItem("palette", "colors repeat")
	p.FailItem("seed.path", "no match")
	p.Printf("plain %s", "text")

	want := "✓ saved 3\n" +
		"• info\n" +
		"! careful\n" +
		"✗ broken: x\n" +
		"\nChecks\n" +
		"  ✓ resources\n" +
		"  ! palette: colors repeat\n" +
		"  ✗ seed.path: no match\n" +
		"plain text"
	assert.Equal(t, want, tuitest.StripANSI(buf.String()))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}
