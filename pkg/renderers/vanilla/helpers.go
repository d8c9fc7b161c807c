package vanilla

import "strings"

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fw-" + strings.ReplaceAll(trimmed, ".", "-")
}

func componentLabelID(name string) string {
	controlID := componentControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-label"
}

func componentErrorID(name string) string {
	controlID := componentControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-error"
}

// labelSupportsFor reports whether the component renders a single control a
// <label for> can point at. Grouped controls get a <fieldset> and <legend>.
func labelSupportsFor(componentName string) bool {
	switch strings.TrimSpace(componentName) {
	case "radio", "address":
		return false
	default:
		return true
	}
}
