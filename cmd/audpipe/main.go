// SPDX-License-Identifier: EPL-2.0

// Command audpipe decodes audio files through a filter chain.
package main

import (
	"os"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
