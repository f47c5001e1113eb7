package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-feedbackws/dsp/effectchain"
	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
	"github.com/cwbudde/algo-feedbackws/internal/automation"
	"github.com/cwbudde/algo-feedbackws/internal/testutil"
)

const testRate = 48000

func sineTrack(channels, n int) *track {
	left := testutil.DeterministicSine(440, testRate, 0.5, n)
	right := testutil.DeterministicSine(660, testRate, 0.25, n)

	if channels == 1 {
		right = append([]float64(nil), left...)
	}

	return &track{sampleRate: testRate, bitDepth: 16, channels: channels, left: left, right: right}
}

func TestWAVRoundTrip(t *testing.T) {
	for _, channels := range []int{1, 2} {
		for _, bits := range []int{16, 24} {
			path := filepath.Join(t.TempDir(), "rt.wav")
			in := sineTrack(channels, 1000)

			if err := writeWAV(path, in, bits); err != nil {
				t.Fatalf("writeWAV() error = %v", err)
			}

			out, err := readWAV(path)
			if err != nil {
				t.Fatalf("readWAV() error = %v", err)
			}

			if out.channels != channels || out.sampleRate != testRate || out.bitDepth != bits {
				t.Fatalf("format = %d ch %d Hz %d bit", out.channels, out.sampleRate, out.bitDepth)
			}

			step := 1 / fullScale(bits)
			testutil.RequireSliceNearlyEqual(t, out.left, in.left, step)
			testutil.RequireSliceNearlyEqual(t, out.right, in.right, step)
		}
	}
}

// pcm8WAV returns a mono 8-bit WAV file holding samples.
func pcm8WAV(samples []byte) []byte {
	var b bytes.Buffer

	le32 := func(v uint32) { _ = binary.Write(&b, binary.LittleEndian, v) }
	le16 := func(v uint16) { _ = binary.Write(&b, binary.LittleEndian, v) }

	b.WriteString("RIFF")
	le32(uint32(36 + len(samples)))
	b.WriteString("WAVEfmt ")
	le32(16)
	le16(1) // PCM
	le16(1) // channels
	le32(testRate)
	le32(testRate) // byte rate
	le16(1)        // block align
	le16(8)
	b.WriteString("data")
	le32(uint32(len(samples)))
	b.Write(samples)

	return b.Bytes()
}

func TestReadWAV8BitIsCentred(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u8.wav")
	if err := os.WriteFile(path, pcm8WAV([]byte{128, 128, 0, 255, 192}), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tr, err := readWAV(path)
	if err != nil {
		t.Fatalf("readWAV() error = %v", err)
	}

	if tr.bitDepth != 8 || tr.channels != 1 {
		t.Fatalf("format = %d bit %d ch", tr.bitDepth, tr.channels)
	}

	want := []float64{0, 0, -1, 127.0 / 128, 0.5}
	testutil.RequireSliceNearlyEqual(t, tr.left, want, 0)
	testutil.RequireSliceNearlyEqual(t, tr.right, want, 0)
}

func TestWriteWAVRejectsBitDepth(t *testing.T) {
	if err := writeWAV(filepath.Join(t.TempDir(), "x.wav"), sineTrack(2, 10), 12); err == nil {
		t.Fatal("expected error for 12-bit output")
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not a wav file at all"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := readWAV(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestQuantizeClips(t *testing.T) {
	scale := fullScale(16)
	if got := quantize(2, scale); got != 32767 {
		t.Fatalf("quantize(2) = %d", got)
	}

	if got := quantize(-2, scale); got != -32768 {
		t.Fatalf("quantize(-2) = %d", got)
	}
}

func loadFlagChain(t *testing.T, p feedbackws.Params) *effectchain.Chain {
	t.Helper()

	graph, err := flagPreset("sinlog", p)
	if err != nil {
		t.Fatalf("flagPreset() error = %v", err)
	}

	chain := effectchain.New(effectchain.Context{SampleRate: testRate}, effectchain.DefaultRegistry())
	if err := chain.LoadGraph(graph); err != nil {
		t.Fatalf("LoadGraph() error = %v", err)
	}

	return chain
}

func TestRenderMatchesEngine(t *testing.T) {
	p := feedbackws.DefaultParams()
	p.A = 0.6
	p.StereoDepth = 0.2

	chain := loadFlagChain(t, p)
	tr := sineTrack(2, 1500)

	idx, ok := waveshape.Default().IndexOf(waveshape.KindSinLog)
	if !ok {
		t.Fatal("sinlog missing from default registry")
	}

	p.Function = idx

	engine, err := feedbackws.NewEngine(testRate, feedbackws.WithParams(p))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	wantL := append([]float64(nil), tr.left...)
	wantR := append([]float64(nil), tr.right...)

	if err := engine.ProcessStereo(wantL, wantR); err != nil {
		t.Fatalf("ProcessStereo() error = %v", err)
	}

	var calls int

	err = render(context.Background(), chain, tr.left, tr.right, renderConfig{
		blockSize: 256,
		progress:  func(done, total int) { calls++ },
	})
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if calls != 6 {
		t.Fatalf("progress calls = %d, want 6", calls)
	}

	testutil.RequireSliceNearlyEqual(t, tr.left, wantL, 0)
	testutil.RequireSliceNearlyEqual(t, tr.right, wantR, 0)
}

func TestRenderAutomation(t *testing.T) {
	script, err := automation.Load(`
function automate(t, block)
  if block >= 2 then return { gain = 0 } end
  return nil
end
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer script.Close()

	p := feedbackws.DefaultParams()
	p.A = 0.5
	p.Feedback = 0
	chain := loadFlagChain(t, p)
	tr := sineTrack(2, 400)

	err = render(context.Background(), chain, tr.left, tr.right, renderConfig{
		blockSize:   100,
		script:      script,
		defaultNode: flagNodeID,
	})
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	// Gain 0 silences the shaper, and without feedback only the decaying
	// output filter memory is left.
	var early, late float64
	for i := range 100 {
		early = math.Max(early, math.Abs(tr.left[i]))
		late = math.Max(late, math.Abs(tr.left[300+i]))
	}

	if early < 0.01 || late > early*0.1 {
		t.Fatalf("early peak %g, late peak %g", early, late)
	}
}

func TestRenderAutomatesFunction(t *testing.T) {
	script, err := automation.Load(`
function automate(t, block)
  if block == 1 then return { ["fbws.function"] = 2 } end
  return nil
end
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer script.Close()

	p := feedbackws.DefaultParams()
	p.A = 0.5

	// The flag preset names the shaper; automating the index must still win.
	chain := loadFlagChain(t, p)
	tr := sineTrack(2, 200)

	err = render(context.Background(), chain, tr.left, tr.right, renderConfig{
		blockSize:   100,
		script:      script,
		defaultNode: flagNodeID,
	})
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	rt, ok := chain.NodeRuntime(flagNodeID).(interface{ Engine() *feedbackws.Engine })
	if !ok {
		t.Fatalf("NodeRuntime() = %T", chain.NodeRuntime(flagNodeID))
	}

	if got := rt.Engine().Shaper().Kind; got != waveshape.KindXSinXSquared {
		t.Fatalf("shaper = %s, want xsinx2", got)
	}
}

func TestFlagPresetUsesFunctionWithoutShaper(t *testing.T) {
	p := feedbackws.DefaultParams()
	p.Function = 3

	graph, err := flagPreset("", p)
	if err != nil {
		t.Fatalf("flagPreset() error = %v", err)
	}

	if !strings.Contains(graph, `"function":3`) || strings.Contains(graph, `"shaper"`) {
		t.Fatalf("flagPreset() = %s", graph)
	}
}

func TestRenderErrors(t *testing.T) {
	chain := loadFlagChain(t, feedbackws.DefaultParams())
	tr := sineTrack(2, 100)

	if err := render(context.Background(), chain, tr.left, tr.right, renderConfig{}); err == nil {
		t.Fatal("expected error for zero block size")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := render(ctx, chain, tr.left, tr.right, renderConfig{blockSize: 10}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")

	if err := writeWAV(in, sineTrack(1, 2000), 16); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}

	p := feedbackws.DefaultParams()
	p.A = 0.5

	var report bytes.Buffer

	err := run(context.Background(), runConfig{
		input:     in,
		output:    out,
		shaper:    "logistic",
		params:    p,
		blockSize: 512,
		report:    &report,
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(report.String(), "out R") {
		t.Fatalf("missing level report:\n%s", report.String())
	}

	got, err := readWAV(out)
	if err != nil {
		t.Fatalf("readWAV() error = %v", err)
	}

	if got.channels != 1 || len(got.left) != 2000 || got.bitDepth != 16 {
		t.Fatalf("output = %d ch, %d frames, %d bit", got.channels, len(got.left), got.bitDepth)
	}

	testutil.RequireFinite(t, got.left)

	err = run(context.Background(), runConfig{input: in, output: out, preset: filepath.Join(dir, "missing.json"), blockSize: 512})
	if err == nil {
		t.Fatal("expected error for missing preset")
	}
}
