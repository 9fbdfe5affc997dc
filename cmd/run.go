package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/audiolibrelab/micloop/internal/session"
)

var runCmd = &cobra.Command{
	Use:   "run [input-file]",
	Short: "Run a record/playback session fed by an audio file",
	Long: `Run one full record-and-echo cycle: the input file feeds the
microphone, the record button is held for the configured number of
ticks, and the playback is written to a WAV in the output directory
together with a session manifest.

Supported inputs: .wav (16-bit PCM), .mp3, .ogg. The file's sample rate
must match the configured capture rate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceFile := args[0]

		if holdTicks, _ := cmd.Flags().GetInt("hold-ticks"); holdTicks > 0 {
			cfg.Session.HoldTicks = holdTicks
		}
		if maxTicks, _ := cmd.Flags().GetInt("max-ticks"); maxTicks > 0 {
			cfg.Session.MaxTicks = maxTicks
		}
		if outputDir, _ := cmd.Flags().GetString("output"); outputDir != "" {
			cfg.Output.Directory = outputDir
		}
		if dumpEvery, _ := cmd.Flags().GetInt("dump-frames"); dumpEvery > 0 {
			cfg.Video.DumpEvery = dumpEvery
		}
		if realtime, _ := cmd.Flags().GetBool("realtime"); realtime {
			cfg.Session.Realtime = true
		}

		sess, err := session.New(cfg, sourceFile, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := sess.Run(ctx); err != nil {
			return fmt.Errorf("session failed: %w", err)
		}

		fmt.Printf("Session %s finished\n", sess.Name())
		fmt.Printf("Output: %s\n", sess.OutputFile())
		fmt.Printf("Manifest: %s\n", sess.ManifestFile())
		return nil
	},
}

func init() {
	runCmd.Flags().Int("hold-ticks", 0, "ticks to hold the record button (overrides config)")
	runCmd.Flags().Int("max-ticks", 0, "tick budget for the run (overrides config)")
	runCmd.Flags().StringP("output", "o", "", "output directory (overrides config)")
	runCmd.Flags().Int("dump-frames", 0, "dump every Nth rendered frame as PNG")
	runCmd.Flags().Bool("realtime", false, "pace ticks at the configured fps")
}
