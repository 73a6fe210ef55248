package core

// Button identifies one of the device's physical inputs.
// A and B are separate buttons; AB is both pressed together.
type Button int

const (
	ButtonNone Button = iota
	ButtonA           // confirm/back
	ButtonB           // jump
	ButtonAB          // forcible disconnect
)

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "None"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonAB:
		return "A+B"
	default:
		return "Unknown"
	}
}

// TiltMax is the magnitude reported by a fully tilted accelerometer axis.
const TiltMax = 1024
