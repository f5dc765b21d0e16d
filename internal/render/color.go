package render

// Level colors keyed by the event's level tag.
var levelColors = map[string]string{
	"debug":   "#cfd3da",
	"info":    "#2788ce",
	"warning": "#f18500",
	"error":   "#f43f20",
	"fatal":   "#d20f2a",
}

// ColorForLevel returns the color for a level; unknown levels get the error color.
func ColorForLevel(level string) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors["error"]
}
