package model

// Action is a human-friendly peak-shaving mode for a tick.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromFlows maps the peak-shaving flows of a tick onto an Action.
func ActionFromFlows(inKW, outKW float64) Action {
	switch {
	case outKW > 0:
		return ActionDischarging
	case inKW > 0:
		return ActionCharging
	default:
		return ActionIdle
	}
}
