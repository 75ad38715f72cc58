// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

const headerSize = 44

func header(sampleRate, channels, bitDepth, dataSize int) []byte {
	blockAlign := channels * bitDepth / 8
	h := make([]byte, headerSize)

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+dataSize))
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], formatPCM)
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], uint16(bitDepth))

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))
	return h
}

// WriteWAV writes a canonical PCM WAV. data holds interleaved little-endian
// samples of bitDepth bits.
func WriteWAV(w io.Writer, sampleRate, channels, bitDepth int, data []byte) error {
	if channels <= 0 || bitDepth%8 != 0 || bitDepth <= 0 || len(data)%(channels*bitDepth/8) != 0 {
		return fmt.Errorf("%w: %d channels of %d bits over %d bytes",
			ErrUnsupportedWavLayout, channels, bitDepth, len(data))
	}
	if _, err := w.Write(header(sampleRate, channels, bitDepth, len(data))); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	if _, err := w.Write(header(sampleRate, 1, 16, len(samples)*2)); err != nil {
		return fmt.Errorf("%w", err)
	}
	if len(samples) == 0 {
		return nil
	}

	// write in chunks to bound the scratch buffer
	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
