// Command fbwsinfo prints the registered waveshapers and the harmonic
// distortion each one produces through the feedback chain.
//
// Usage:
//
//	fbwsinfo [flags] [shaper-name ...]
//
// Without arguments it measures every shaper of the extended registry.
//
// Examples:
//
//	fbwsinfo -list
//	fbwsinfo logistic sinlog
//	fbwsinfo -freq 440 -a 0.8 -feedback 0.2
//	fbwsinfo -cpu
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-feedbackws/dsp/effects/feedbackws"
	"github.com/cwbudde/algo-feedbackws/dsp/waveshape"
	"github.com/cwbudde/algo-feedbackws/internal/blockops"
	"github.com/cwbudde/algo-feedbackws/measure/thd"
	"github.com/cwbudde/algo-vecmath/cpu"
)

type options struct {
	canonical bool
	freq      float64
	amplitude float64
	rate      float64
	fftSize   int
	params    feedbackws.Params
}

func main() {
	def := feedbackws.DefaultParams()
	tone := thd.DefaultToneConfig()

	var opts options

	flag.BoolVar(&opts.canonical, "canonical", false, "use the five-shaper registry of the 8-parameter layout")
	flag.Float64Var(&opts.freq, "freq", tone.Frequency, "test tone frequency in Hz")
	flag.Float64Var(&opts.amplitude, "amp", tone.Amplitude, "test tone amplitude")
	flag.Float64Var(&opts.rate, "rate", tone.SampleRate, "sample rate in Hz")
	flag.IntVar(&opts.fftSize, "size", tone.FFTSize, "analysis length (power of two)")
	flag.Float64Var(&opts.params.A, "a", 0.5, "shape parameter a")
	flag.Float64Var(&opts.params.B, "b", 0.5, "shape parameter b")
	flag.Float64Var(&opts.params.C, "c", 0.5, "shape parameter c")
	flag.Float64Var(&opts.params.D, "d", 1, "shape parameter d")
	flag.Float64Var(&opts.params.Gain, "gain", def.Gain, "pre-shaper gain")
	flag.Float64Var(&opts.params.Feedback, "feedback", def.Feedback, "feedback amount")
	flag.Float64Var(&opts.params.Beta, "beta", def.Beta, "feedback filter pole")
	list := flag.Bool("list", false, "list registered shapers")
	showCPU := flag.Bool("cpu", false, "print detected CPU features and the selected block kernel")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fbwsinfo [flags] [shaper-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Measures THD, peak and DC offset of each waveshaper in the feedback chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fbwsinfo -list\n")
		fmt.Fprintf(os.Stderr, "  fbwsinfo -freq 440 -a 0.8 logistic sinefm\n")
		fmt.Fprintf(os.Stderr, "  fbwsinfo -cpu\n")
	}
	flag.Parse()

	opts.params.StereoColor = def.StereoColor

	registry := waveshape.Default()
	if opts.canonical {
		registry = waveshape.Canonical()
	}

	if *showCPU {
		printCPU(os.Stdout)
		return
	}

	if *list {
		printList(os.Stdout, registry)
		return
	}

	indices, err := resolveShapers(registry, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	err = printAnalysis(os.Stdout, registry, indices, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList(w io.Writer, registry *waveshape.Registry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Index\tName\tParams\tSelector\tFunction\n")
	fmt.Fprintf(tw, "-----\t----\t------\t--------\t--------\n")

	for i, e := range registry.Entries() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f\t%s\n", i, e.Name, e.Params, registry.Normalized(i), e.Descriptor)
	}

	tw.Flush()
}

func printCPU(w io.Writer) {
	f := cpu.DetectFeatures()
	fmt.Fprintf(w, "architecture: %s\n", f.Architecture)
	fmt.Fprintf(w, "features:     %+v\n", f)
	fmt.Fprintf(w, "block kernel: %s\n", blockops.Selected())
}

// resolveShapers maps names to registry indices. No names selects all.
func resolveShapers(registry *waveshape.Registry, names []string) ([]int, error) {
	if len(names) == 0 {
		all := make([]int, registry.Len())
		for i := range all {
			all[i] = i
		}

		return all, nil
	}

	indices := make([]int, 0, len(names))

	for _, name := range names {
		kind, err := waveshape.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("%w (use -list to see available)", err)
		}

		i, ok := registry.IndexOf(kind)
		if !ok {
			return nil, fmt.Errorf("shaper %q is not in the selected registry", name)
		}

		indices = append(indices, i)
	}

	return indices, nil
}

func printAnalysis(w io.Writer, registry *waveshape.Registry, indices []int, opts options) error {
	tone := thd.DefaultToneConfig()
	tone.SampleRate = opts.rate
	tone.FFTSize = opts.fftSize
	tone.Frequency = opts.freq
	tone.Amplitude = opts.amplitude

	fmt.Fprintf(w, "Tone: %.1f Hz @ %.3f, fs=%.0f Hz, N=%d\n", opts.freq, opts.amplitude, opts.rate, opts.fftSize)
	fmt.Fprintf(w, "Params: a=%.3f b=%.3f c=%.3f d=%.3f gain=%.3f feedback=%.3f beta=%.3f\n\n",
		opts.params.A, opts.params.B, opts.params.C, opts.params.D,
		opts.params.Gain, opts.params.Feedback, opts.params.Beta)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Shaper\tTHD %%\tTHD dB\tTHD+N dB\tOdd %%\tEven %%\tPeak\tCrest dB\tDC\t\n")
	fmt.Fprintf(tw, "------\t-----\t------\t--------\t-----\t------\t----\t--------\t--\t\n")

	for _, i := range indices {
		report, err := measure(registry, i, opts, tone)
		if err != nil {
			return fmt.Errorf("%s: %w", registry.Entry(i).Name, err)
		}

		fmt.Fprintf(tw, "%s\t%.3f\t%.1f\t%.1f\t%.3f\t%.3f\t%.4f\t%.2f\t%+.5f\t\n",
			registry.Entry(i).Name,
			report.THD*100, report.THD_dB, report.THDN_dB,
			report.OddHD*100, report.EvenHD*100,
			report.Level.Peak, report.Level.Crest_dB, report.Level.DC)
	}

	return tw.Flush()
}

func measure(registry *waveshape.Registry, index int, opts options, tone thd.ToneConfig) (thd.Report, error) {
	params := opts.params
	params.Function = index

	engine, err := feedbackws.NewEngine(tone.SampleRate,
		feedbackws.WithRegistry(registry),
		feedbackws.WithParams(params),
	)
	if err != nil {
		return thd.Report{}, err
	}

	return thd.MeasureProcessor(engine, tone)
}
