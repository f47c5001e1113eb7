package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
)

func TestResolveShapers(t *testing.T) {
	reg := waveshape.Canonical()

	all, err := resolveShapers(reg, nil)
	if err != nil {
		t.Fatalf("resolveShapers() error = %v", err)
	}

	if len(all) != reg.Len() {
		t.Fatalf("len = %d, want %d", len(all), reg.Len())
	}

	got, err := resolveShapers(reg, []string{" SinLog ", "logistic"})
	if err != nil {
		t.Fatalf("resolveShapers() error = %v", err)
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Fatalf("resolveShapers() = %v, want [1 0]", got)
	}

	if _, err := resolveShapers(reg, []string{"sinefm"}); err == nil {
		t.Fatal("expected error: sinefm is not in the canonical registry")
	}

	if _, err := resolveShapers(reg, []string{"fuzz"}); err == nil {
		t.Fatal("expected error for unknown shaper")
	}
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, waveshape.Default())

	out := buf.String()
	for _, e := range waveshape.Default().Entries() {
		if !strings.Contains(out, e.Name) {
			t.Fatalf("list misses %q:\n%s", e.Name, out)
		}
	}
}

func TestPrintAnalysis(t *testing.T) {
	p := feedbackws.DefaultParams()
	p.A = 0.5

	opts := options{
		freq:      1000,
		amplitude: 0.5,
		rate:      48000,
		fftSize:   4096,
		params:    p,
	}

	var buf bytes.Buffer

	err := printAnalysis(&buf, waveshape.Canonical(), []int{0, 2}, opts)
	if err != nil {
		t.Fatalf("printAnalysis() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "logistic") || !strings.Contains(out, "xsinx2") {
		t.Fatalf("missing rows:\n%s", out)
	}

	opts.fftSize = 1000
	if err := printAnalysis(&buf, waveshape.Canonical(), []int{0}, opts); err == nil {
		t.Fatal("expected error for non power-of-two size")
	}
}
