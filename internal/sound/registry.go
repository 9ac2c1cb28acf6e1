// Package sound holds the built-in alarm sound catalog and the playback
// primitives used by alarms and the form preview.
package sound

// CustomID is the alarm sound value meaning "play the task's custom sound".
const CustomID = "custom"

// Sound is a built-in alarm sound.
type Sound struct {
	ID   string
	Name string
	URL  string
}

var builtins = []Sound{
	{ID: "bell", Name: "Bell", URL: "https://assets.mixkit.co/active_storage/sfx/2869/2869-preview.mp3"},
	{ID: "chime", Name: "Chime", URL: "https://assets.mixkit.co/active_storage/sfx/2871/2871-preview.mp3"},
	{ID: "notification", Name: "Notification", URL: "https://assets.mixkit.co/active_storage/sfx/2867/2867-preview.mp3"},
	{ID: "alert", Name: "Alert", URL: "https://assets.mixkit.co/active_storage/sfx/2866/2866-preview.mp3"},
}

// All returns the built-in sounds in display order.
func All() []Sound {
	out := make([]Sound, len(builtins))
	copy(out, builtins)
	return out
}

// Default returns the first built-in sound.
func Default() Sound {
	return builtins[0]
}

// Lookup finds a built-in sound by id.
func Lookup(id string) (Sound, bool) {
	for _, s := range builtins {
		if s.ID == id {
			return s, true
		}
	}
	return Sound{}, false
}

// IsKnown reports whether id names a built-in sound or the custom sentinel.
func IsKnown(id string) bool {
	if id == CustomID {
		return true
	}
	_, ok := Lookup(id)
	return ok
}
