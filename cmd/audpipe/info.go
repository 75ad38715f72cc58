// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ik5/audpipe/audio"
)

func infoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [input]",
		Short: "Print the audio layout of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := audio.Open(a.env, "decode", a.cfg.SourceOptions(args[0]))
			if err != nil {
				return err
			}
			defer chain.Close()

			printInfo(cmd.OutOrStdout(), chain.Info())
			return nil
		},
	}

	sourceFlags(cmd)

	return cmd
}

func printInfo(w io.Writer, info audio.Info) {
	fmt.Fprintf(w, "codec:       %s\n", info.Codec)
	fmt.Fprintf(w, "sample rate: %d Hz\n", info.SampleRate)
	fmt.Fprintf(w, "channels:    %d\n", info.Channels)
	fmt.Fprintf(w, "format:      %s\n", info.Format)
	fmt.Fprintf(w, "frame:       %d samples, %d bytes\n", info.FrameLen, info.FrameSize)
	fmt.Fprintf(w, "time base:   %d/%d\n", info.TimeBase.Num, info.TimeBase.Den)
}
