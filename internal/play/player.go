// Package play plays a session's output WAV through an external
// player.
package play

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/audiolibrelab/micloop/internal/config"
)

type Player struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Player {
	return &Player{cfg: cfg}
}

// Play resolves the session's output WAV in the output directory and
// plays it with the first available player.
func (p *Player) Play(sessionName string) error {
	audioFile := filepath.Join(p.cfg.Output.Directory, sessionName+".wav")

	if _, err := os.Stat(audioFile); err != nil {
		return fmt.Errorf("session output not found: %s", audioFile)
	}

	player, err := p.findAudioPlayer()
	if err != nil {
		return fmt.Errorf("no suitable audio player found: %w", err)
	}

	fmt.Printf("Playing: %s\n", audioFile)

	var cmd *exec.Cmd
	switch player {
	case "vlc":
		cmd = exec.Command("vlc", "--play-and-exit", audioFile)
	case "mpv":
		cmd = exec.Command("mpv", "--no-video", audioFile)
	case "ffplay":
		cmd = exec.Command("ffplay", "-nodisp", "-autoexit", audioFile)
	case "aplay":
		cmd = exec.Command("aplay", audioFile)
	default:
		return fmt.Errorf("unsupported player: %s", player)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("playback failed with %s: %w", player, err)
	}

	fmt.Println("Playback completed")
	return nil
}

func (p *Player) findAudioPlayer() (string, error) {
	players := []string{"vlc", "mpv", "ffplay", "aplay"}

	for _, player := range players {
		if _, err := exec.LookPath(player); err == nil {
			return player, nil
		}
	}

	return "", fmt.Errorf("no audio player found (tried: %s)", strings.Join(players, ", "))
}
