package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiolibrelab/micloop/internal/config"
	"github.com/audiolibrelab/micloop/internal/core"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show core details and the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := core.GetSystemInfo()

		fmt.Printf("=== CORE ===\n")
		fmt.Printf("name: %s\n", sys.Name)
		fmt.Printf("version: %s\n", sys.Version)
		fmt.Printf("geometry: %dx%d\n", core.ScreenWidth, core.ScreenHeight)
		fmt.Printf("recording length: %ds\n", core.RecordingSeconds)

		fmt.Printf("\n=== SUPPORTED CAPTURE RATES ===\n")
		for _, rate := range config.SupportedRates {
			marker := ""
			if rate == cfg.Audio.SampleRate {
				marker = " [configured]"
			}
			fmt.Printf("%d Hz%s\n", rate, marker)
		}

		fmt.Printf("\n=== RESOLVED CONFIGURATION ===\n")
		fmt.Printf("\n[Audio]\n")
		fmt.Printf("sample_rate: %d\n", cfg.Audio.SampleRate)
		fmt.Printf("sink_chunk: %d\n", cfg.Audio.SinkChunk)
		fmt.Printf("\n[Video]\n")
		fmt.Printf("fps: %d\n", cfg.Video.FPS)
		fmt.Printf("dump_every: %d\n", cfg.Video.DumpEvery)
		fmt.Printf("\n[Session]\n")
		fmt.Printf("hold_ticks: %d\n", cfg.Session.HoldTicks)
		fmt.Printf("max_ticks: %d\n", cfg.Session.MaxTicks)
		fmt.Printf("realtime: %t\n", cfg.Session.Realtime)
		fmt.Printf("\n[Output]\n")
		fmt.Printf("directory: %s\n", cfg.Output.Directory)

		return nil
	},
}
