package cmd

import (
	"github.com/spf13/cobra"

	"github.com/audiolibrelab/micloop/internal/play"
)

var playCmd = &cobra.Command{
	Use:   "play [session-name]",
	Short: "Play a session's output through an external player",
	Long: `Play the WAV a previous run produced. The session name is the one
printed at the end of 'micloop run' (also the base name of the files in
the output directory).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		player := play.New(cfg)
		return player.Play(args[0])
	},
}
