// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/formats/wav"
	"github.com/ik5/audpipe/pcm"
)

// Example_decoding demonstrates demuxing a WAV file.
func Example_decoding() {
	wavData := new(bytes.Buffer)
	_ = wav.WriteWAV16(wavData, 16000, []int16{100, 200, 300, 400, 500})

	container, err := wav.Decoder{}.Demux(wavData)
	if err != nil {
		fmt.Printf("Demux error: %v\n", err)
		return
	}
	defer container.Close()

	info := container.Tracks()[0].Info
	fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	fmt.Printf("Channels: %d\n", info.Channels)
	fmt.Printf("Format: %s\n", info.Format)
	// Output:
	// Sample rate: 16000 Hz
	// Channels: 1
	// Format: s16
}

// Example_encoding demonstrates writing a WAV file.
func Example_encoding() {
	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16((i % 100) * 100)
	}

	output := new(bytes.Buffer)
	if err := wav.WriteWAV16(output, 8000, samples); err != nil {
		fmt.Printf("Write error: %v\n", err)
		return
	}

	fmt.Printf("Wrote %d bytes\n", output.Len())
	// Output:
	// Wrote 2044 bytes
}

// Example_sampleConversion decodes a WAV file through a chain that asks for
// float samples.
func Example_sampleConversion() {
	samples := []int16{-32768, -16384, 0, 16384}
	wavData := new(bytes.Buffer)
	_ = wav.WriteWAV16(wavData, 8000, samples)

	registry := audio.NewRegistry()
	_ = registry.RegisterKind(audio.DecodeKind)
	registry.Register(wav.Format, wav.Decoder{})

	env := audio.Env{
		Registry: registry,
		Open: func(string) (io.ReadCloser, error) {
			return io.NopCloser(wavData), nil
		},
	}

	chain, err := audio.Open(env, "decode", audio.Options{"filename": "tone.wav", "sampleformat": "flt"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer chain.Close()

	p, err := chain.Samples(0, 10)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer p.Free()

	fmt.Printf("got %d samples, eof=%v\n", p.SampleCount, p.EOF())
	for i := range int(p.SampleCount) {
		fmt.Printf("  %6d -> %+.3f\n", samples[i], pcm.SampleFloat(p.Data, p.Format, i))
	}
	// Output:
	// got 4 samples, eof=true
	//   -32768 -> -1.000
	//   -16384 -> -0.500
	//        0 -> +0.000
	//    16384 -> +0.500
}

// Example_errorNotWAV shows handling of invalid WAV files.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Demux(bytes.NewReader([]byte("This is not a WAV file")))

	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	}
	// Output: Detected: Not a valid WAV file
}
