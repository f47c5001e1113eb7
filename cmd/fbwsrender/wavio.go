package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errUnsupportedWAV = errors.New("unsupported WAV file")

// track is a decoded stereo signal in [-1, 1].
type track struct {
	sampleRate int
	bitDepth   int
	channels   int
	left       []float64
	right      []float64
}

// readWAV decodes a mono or stereo PCM file. Mono input is copied to both
// channels.
func readWAV(path string) (*track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", errUnsupportedWAV, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels (want 1 or 2)", errUnsupportedWAV, channels)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}

	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: bit depth %d", errUnsupportedWAV, bitDepth)
	}

	t := &track{
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
	}
	// 8-bit PCM is unsigned with silence at 128.
	bias := 0
	if bitDepth == 8 {
		bias = 128
	}

	t.left, t.right = deinterleave(buf.Data, channels, bias, fullScale(bitDepth))

	return t, nil
}

// writeWAV encodes t as integer PCM at bitDepth with the input channel count.
func writeWAV(path string, t *track, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: output bit depth %d", errUnsupportedWAV, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, t.sampleRate, bitDepth, t.channels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: t.channels,
			SampleRate:  t.sampleRate,
		},
		Data:           interleave(t, fullScale(bitDepth)),
		SourceBitDepth: bitDepth,
	}

	err = enc.Write(buf)
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	err = enc.Close()
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}

func fullScale(bitDepth int) float64 {
	return math.Ldexp(1, bitDepth-1)
}

func deinterleave(data []int, channels, bias int, scale float64) ([]float64, []float64) {
	frames := len(data) / channels
	left := make([]float64, frames)
	right := make([]float64, frames)

	for i := range frames {
		left[i] = float64(data[i*channels]-bias) / scale
		right[i] = float64(data[i*channels+channels-1]-bias) / scale
	}

	return left, right
}

// interleave quantizes to integers, clipping to full scale. A mono track
// is written from the left channel.
func interleave(t *track, scale float64) []int {
	frames := min(len(t.left), len(t.right))
	data := make([]int, frames*t.channels)

	for i := range frames {
		data[i*t.channels] = quantize(t.left[i], scale)
		if t.channels == 2 {
			data[i*2+1] = quantize(t.right[i], scale)
		}
	}

	return data
}

func quantize(x, scale float64) int {
	v := math.Round(x * scale)

	return int(math.Max(-scale, math.Min(scale-1, v)))
}
