// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/audpipe/formats/mp3"
)

// ExampleDecoder_Demux_errorHandling shows the error returned for data that
// holds no MP3 frames.
func ExampleDecoder_Demux_errorHandling() {
	_, err := mp3.Decoder{}.Demux(bytes.NewReader([]byte("invalid mp3 data")))
	if err != nil {
		fmt.Println("Failed to decode MP3")
	}
	// Output: Failed to decode MP3
}
