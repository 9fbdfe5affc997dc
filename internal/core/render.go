package core

// XRGB8888 colors.
const (
	colorWhite  = 0x00ffffff
	colorYellow = 0x00ffff00
	colorBlue   = 0x000000ff
)

// Frame rows for the reference line and the two progress bars.
const (
	referenceRow = 32
	recordedRow  = 110
	playedRow    = 130
)

// render recomputes the whole frame and hands it to the host: black
// background, a white reference line, a yellow bar for recording
// progress and a blue bar for playback progress.
func (c *Core) render() {
	clear(c.frame)

	for x := 0; x < ScreenWidth; x++ {
		c.frame[x+ScreenWidth*referenceRow] = colorWhite
	}

	drawBar(c.frame, recordedRow, float64(c.recorded)/float64(len(c.recording)), colorYellow)
	drawBar(c.frame, playedRow, float64(c.played)/float64(len(c.playback)), colorBlue)

	c.host.RefreshVideo(c.frame, ScreenWidth, ScreenHeight, ScreenWidth*4)
}

// drawBar fills row pixels whose horizontal fraction is within ratio.
func drawBar(frame []uint32, row int, ratio float64, color uint32) {
	for x := 0; x < ScreenWidth; x++ {
		if float64(x)/ScreenWidth <= ratio {
			frame[x+ScreenWidth*row] = color
		}
	}
}
