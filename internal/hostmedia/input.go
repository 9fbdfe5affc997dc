package hostmedia

// ScriptedInput drives the record button deterministically: pressed at
// a given tick, held for a fixed number of ticks.
type ScriptedInput struct {
	tick      int
	pressTick int
	holdTicks int
}

// NewScriptedInput presses the button at pressTick (counting Poll
// calls from 1) and holds it for holdTicks ticks.
func NewScriptedInput(pressTick, holdTicks int) *ScriptedInput {
	return &ScriptedInput{
		pressTick: pressTick,
		holdTicks: holdTicks,
	}
}

// Poll advances the script by one tick.
func (s *ScriptedInput) Poll() { s.tick++ }

// Held reports whether the record button is down on the current tick.
func (s *ScriptedInput) Held() bool {
	return s.tick >= s.pressTick && s.tick < s.pressTick+s.holdTicks
}
