package transport

import (
	"codeberg.org/snonux/chapmark/internal/player"
	"codeberg.org/snonux/chapmark/internal/timecode"
)

const unknownLabel = "--:-- / --:--"

// Controller connects the slider and the refresh loop to a player bridge.
type Controller struct {
	bridge   player.Bridge
	slider   *Slider
	sched    *Scheduler
	dragging bool
	label    string
}

// NewController attaches the slider's change callback to seeking.
func NewController(b player.Bridge, sched *Scheduler) *Controller {
	c := &Controller{bridge: b, slider: &Slider{}, sched: sched, label: unknownLabel}
	c.slider.Attach(c.SeekToNormalized)
	return c
}

func (c *Controller) Bridge() player.Bridge { return c.bridge }
func (c *Controller) Slider() *Slider { return c.slider }
func (c *Controller) Scheduler() *Scheduler { return c.sched }
func (c *Controller) Dragging() bool { return c.dragging }
func (c *Controller) Label() string { return c.label }

// SeekToNormalized seeks to value/SliderMax of the duration. It does nothing
// while the duration is unknown.
func (c *Controller) SeekToNormalized(value int) error {
	dur, err := c.bridge.DurationMs()
	if err != nil || dur <= 0 {
		return err
	}
	return c.bridge.SetPositionMs(int64(clampValue(value)) * dur / SliderMax)
}

// SeekToSeconds seeks to an absolute position.
func (c *Controller) SeekToSeconds(seconds int) error {
	if seconds < 0 {
		seconds = 0
	}
	return c.bridge.SetPositionMs(int64(seconds) * 1000)
}

// Jump seeks relative to the current position. Targets before zero are
// clamped; targets past the end are left to the player.
func (c *Controller) Jump(deltaSeconds int) error {
	pos, err := c.bridge.PositionMs()
	if err != nil {
		return err
	}
	target := pos + int64(deltaSeconds)*1000
	if target < 0 {
		target = 0
	}
	return c.bridge.SetPositionMs(target)
}

// PositionSeconds is the current position rounded down to whole seconds.
func (c *Controller) PositionSeconds() (int, error) {
	pos, err := c.bridge.PositionMs()
	if err != nil || pos < 0 {
		return 0, err
	}
	return int(pos / 1000), nil
}

// DurationSeconds is zero while the duration is unknown.
func (c *Controller) DurationSeconds() (int, error) {
	dur, err := c.bridge.DurationMs()
	if err != nil || dur <= 0 {
		return 0, err
	}
	return int(dur / 1000), nil
}

// DragStart suspends the refresh loop so it does not move the slider
// under the user.
func (c *Controller) DragStart() {
	c.dragging = true
	c.sched.Disarm()
}

// DragMove moves the slider during a drag; the attached callback seeks.
func (c *Controller) DragMove(value int) error {
	if !c.dragging {
		c.DragStart()
	}
	return c.slider.SetValue(value)
}

// DragEnd seeks to the slider's final value and resumes the refresh loop.
func (c *Controller) DragEnd() error {
	if !c.dragging {
		return nil
	}
	c.dragging = false
	err := c.SeekToNormalized(c.slider.Value())
	c.sched.Arm()
	return err
}

// Tick copies the bridge position into the slider and the label. The seek
// callback is detached around the update.
func (c *Controller) Tick() error {
	dur, err := c.bridge.DurationMs()
	if err != nil || dur <= 0 {
		return err
	}
	pos, err := c.bridge.PositionMs()
	if err != nil {
		return err
	}
	if pos < 0 {
		pos = 0
	}
	onChange := c.slider.Detach()
	_ = c.slider.SetValue(int(pos * SliderMax / dur))
	c.slider.Attach(onChange)
	c.label = timecode.Format(int(pos/1000)) + " / " + timecode.Format(int(dur/1000))
	return nil
}

// HandleTick runs one refresh for a delivered tick and re-arms the loop.
// Stale ticks are ignored and reported as not handled.
func (c *Controller) HandleTick(msg TickMsg) (bool, error) {
	if !c.sched.Accept(msg) {
		return false, nil
	}
	err := c.Tick()
	c.sched.Arm()
	return true, err
}

// Close tears down the bridge and deschedules the refresh loop.
func (c *Controller) Close() error {
	err := player.Teardown(c.bridge)
	c.dragging = false
	c.sched.Disarm()
	return err
}
