// SPDX-License-Identifier: EPL-2.0

package pcm

// Deinterleave splits interleaved data into one contiguous plane per channel.
// width is the byte width of one sample of one channel. No value conversion
// takes place.
func Deinterleave(data []byte, width, channels int) [][]byte {
	if width <= 0 || channels <= 0 {
		return nil
	}
	frame := width * channels
	count := len(data) / frame

	planes := make([][]byte, channels)
	for c := range planes {
		planes[c] = make([]byte, count*width)
	}
	for i := range count {
		src := data[i*frame:]
		for c := range channels {
			copy(planes[c][i*width:(i+1)*width], src[c*width:(c+1)*width])
		}
	}
	return planes
}

// Interleave is the inverse of Deinterleave. All planes must hold the same
// number of bytes.
func Interleave(planes [][]byte, width int) ([]byte, error) {
	if len(planes) == 0 || width <= 0 {
		return nil, nil
	}
	size := len(planes[0])
	for _, p := range planes[1:] {
		if len(p) != size {
			return nil, ErrPlaneMismatch
		}
	}

	channels := len(planes)
	count := size / width
	frame := width * channels
	out := make([]byte, count*frame)
	for i := range count {
		dst := out[i*frame:]
		for c, p := range planes {
			copy(dst[c*width:(c+1)*width], p[i*width:(i+1)*width])
		}
	}
	return out, nil
}

// DeinterleaveFloat decodes interleaved samples of format f into planar
// float32 buffers, one per channel.
func DeinterleaveFloat(data []byte, f Format, channels int) [][]float32 {
	if channels <= 0 || !f.Valid() {
		return nil
	}
	count := Len(data, f) / channels

	planes := make([][]float32, channels)
	for c := range planes {
		planes[c] = make([]float32, count)
	}
	for i := range count {
		for c := range channels {
			planes[c][i] = float32(SampleFloat(data, f, i*channels+c))
		}
	}
	return planes
}

// InterleaveFloat encodes planar float32 buffers into interleaved samples of
// format f. The shortest plane decides the sample count.
func InterleaveFloat(f Format, planes [][]float32) []byte {
	if len(planes) == 0 || !f.Valid() {
		return nil
	}
	count := len(planes[0])
	for _, p := range planes[1:] {
		count = min(count, len(p))
	}

	channels := len(planes)
	out := make([]byte, Size(count*channels, f))
	for i := range count {
		for c, p := range planes {
			PutSampleFloat(out, f, i*channels+c, float64(p[i]))
		}
	}
	return out
}
