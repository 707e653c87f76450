package domain

// Addon is an optional paid extra priced per person.
type Addon string

const (
	AddonPickup    Addon = "pickup"
	AddonFlycam    Addon = "flycam"
	AddonCamera360 Addon = "camera360"
)

var Addons = []Addon{AddonPickup, AddonFlycam, AddonCamera360}

func ParseAddon(raw string) (Addon, bool) {
	switch Addon(raw) {
	case AddonPickup, AddonFlycam, AddonCamera360:
		return Addon(raw), true
	default:
		return "", false
	}
}

func (a Addon) Label(lang Language) string {
	switch a {
	case AddonPickup:
		if lang == LanguageEN {
			return "Hotel pickup"
		}
		return "Xe đưa đón"
	case AddonFlycam:
		if lang == LanguageEN {
			return "Flycam video"
		}
		return "Quay flycam"
	case AddonCamera360:
		if lang == LanguageEN {
			return "360° camera"
		}
		return "Camera 360°"
	default:
		return string(a)
	}
}
