package handlers

// State is the conversation step a user reaches after an action. The bot
// keeps no per-user session: the state is implied by the button pressed and
// only logged.
type State int

const (
	Idle State = iota
	DeviceChosen
	CategoryListShown
	ImageShown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DeviceChosen:
		return "device_chosen"
	case CategoryListShown:
		return "category_list_shown"
	case ImageShown:
		return "image_shown"
	}
	return "unknown"
}
