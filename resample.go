// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
)

// ResampleToMono16 is a high-level convenience function that appends a
// downmix, a resampler and a conversion to 16-bit PCM to chain, then reads
// the whole stream.
//
// Parameters:
//   - chain: a chain whose last stage produces the audio to convert
//   - targetRate: Target sample rate in Hz (e.g., 8000, 16000, 44100, 48000)
//   - step: samples per request (e.g., 4096)
//
// It returns the collected samples and the output sample rate.
//
// Example:
//
//	chain, _ := audpipe.OpenFile(env, "speech.mp3", nil)
//	defer chain.Close()
//	pcm16, rate, err := audpipe.ResampleToMono16(chain, 8000, 4096)
func ResampleToMono16(chain *audio.Chain, targetRate int, step int) ([]int16, int, error) {
	if err := chain.Append("mono", nil); err != nil {
		return nil, targetRate, fmt.Errorf("%w", err)
	}
	if err := chain.Append("resample", audio.Options{"rate": strconv.Itoa(targetRate)}); err != nil {
		return nil, targetRate, fmt.Errorf("%w", err)
	}
	if err := chain.Append("format", audio.Options{"sampleformat": pcm.S16.String()}); err != nil {
		return nil, targetRate, fmt.Errorf("%w", err)
	}

	// One second up front; append grows it from there.
	pcm16 := make([]int16, 0, targetRate)
	_, err := Drain(chain, step, func(p *audio.Packet) error {
		for i := 0; i+2 <= len(p.Data); i += 2 {
			pcm16 = append(pcm16, int16(binary.LittleEndian.Uint16(p.Data[i:])))
		}
		return nil
	})
	if err != nil {
		return nil, targetRate, err
	}

	return pcm16, targetRate, nil
}
