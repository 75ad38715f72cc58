// SPDX-License-Identifier: EPL-2.0

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ik5/audpipe"
	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/formats/wav"
)

func decodeCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode [input]",
		Short: "Decode an audio file to raw PCM or WAV",
		Long: `Decode an audio file through an optional downmix, resampler and sample
format conversion, and write the result as raw interleaved PCM or as a WAV
file. Use - for stdin or stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.decode(args[0], output); err != nil {
				return err
			}
			if a.showMetrics {
				return a.printMetrics(cmd)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().String("container", "raw", "Output container: raw, wav")
	cmd.Flags().Int("bitdepth", 16, "WAV bit depth: 16, 24, 32")
	cmd.Flags().String("sampleformat", "", "Output sample format: u8, s16, s32, flt, dbl")
	cmd.Flags().Int("rate", 0, "Output sample rate in Hz, 0 keeps the source rate")
	cmd.Flags().Bool("mono", false, "Downmix to one channel")
	cmd.Flags().Int("step", 4096, "Samples per request")
	sourceFlags(cmd)

	return cmd
}

// sourceFlags adds the flags that configure the decode stage.
func sourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Container format, empty to use the file extension")
	cmd.Flags().String("track", "any", "Track: any or an index")
	cmd.Flags().String("errors", string(audio.PolicyDrop), "Corrupt unit policy: drop, fail")
	cmd.Flags().Int("bufsize", 0, "Sample cache size in bytes, 0 for the default")
}

// decode runs input through the configured chain into output.
func (a *app) decode(input, output string) error {
	chain, err := audio.Open(a.env, "decode", a.cfg.SourceOptions(input))
	if err != nil {
		return err
	}

	if err := a.appendStages(chain, output); err != nil {
		_ = chain.Close()
		return err
	}
	a.log.Debug("chain ready", "stages", chain.Kinds(), "output", chain.Info().String())

	n, err := audpipe.Drain(chain, a.cfg.Output.Step, nil)
	if cerr := chain.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		a.log.Error("decoding failed", "input", input, "samples", n, "error", err)
		return err
	}

	a.log.Info("decoded", "input", input, "output", output, "samples", n)
	return nil
}

func (a *app) appendStages(chain *audio.Chain, output string) error {
	out := a.cfg.Output
	if out.Mono {
		if err := chain.Append("mono", nil); err != nil {
			return err
		}
	}
	if out.Rate > 0 {
		if err := chain.Append("resample", audio.Options{"rate": strconv.Itoa(out.Rate)}); err != nil {
			return err
		}
	}
	if out.SampleFormat != "" {
		if err := chain.Append("format", audio.Options{"sampleformat": out.SampleFormat}); err != nil {
			return err
		}
	}

	if out.Container == wav.SinkKind.Name {
		return chain.Append(wav.SinkKind.Name, audio.Options{
			"filename": output,
			"bitdepth": strconv.Itoa(out.BitDepth),
		})
	}
	return chain.Append("raw", audio.Options{"filename": output})
}
