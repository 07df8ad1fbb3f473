package editor

import "github.com/san-kum/ridersim/internal/geom"

// predictionWeight is how far Center leans toward the predicted position.
const predictionWeight = 0.5

// Camera follows the rider. Push and Pop save and restore the editing view
// around playback.
type Camera struct {
	center     geom.Vec2
	prediction geom.Vec2
	predicted  bool
	stack      []geom.Vec2
}

func (c *Camera) Push() { c.stack = append(c.stack, c.center) }

// Pop restores the last pushed center. An empty stack leaves the camera
// where it is.
func (c *Camera) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.center = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.predicted = false
}

func (c *Camera) SetFrameCenter(p geom.Vec2) {
	c.center = p
	c.predicted = false
}

func (c *Camera) SetPrediction(p geom.Vec2) {
	c.prediction = p
	c.predicted = true
}

// Center is the point to keep in the middle of the view.
func (c *Camera) Center() geom.Vec2 {
	if !c.predicted {
		return c.center
	}
	return c.center.Lerp(c.prediction, predictionWeight)
}

func (c *Camera) Depth() int { return len(c.stack) }

// Pan moves the camera by d in track units.
func (c *Camera) Pan(d geom.Vec2) {
	c.center = c.center.Add(d)
	c.predicted = false
}
