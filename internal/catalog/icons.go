package catalog

// IconCapability maps an icon tag to the glyph the presentation layer renders.
// Booking rules never consult it.
func IconCapability(tag string) string {
	switch tag {
	case "sparkles", "flame", "droplets", "dumbbell", "baby", "footprints", "flower", "heart", "armchair":
		return tag
	default:
		return "sparkles"
	}
}
