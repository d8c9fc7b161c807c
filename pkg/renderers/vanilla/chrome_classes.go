package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage     ChromeClass = "formwizard-page"
	ClassForm     ChromeClass = "formwizard-form"
	ClassHeader   ChromeClass = "formwizard-header"
	ClassProgress ChromeClass = "formwizard-progress"
	ClassField    ChromeClass = "formwizard-field"
	ClassFieldset ChromeClass = "formwizard-fieldset"
	ClassLabel    ChromeClass = "formwizard-label"
	ClassError    ChromeClass = "formwizard-error"
	ClassErrors   ChromeClass = "formwizard-errors"
	ClassNotice   ChromeClass = "formwizard-notice"
	ClassActions  ChromeClass = "formwizard-actions"
	ClassPrefs    ChromeClass = "formwizard-preferences"
)

// chromeClasses is the class map handed to the page template.
func chromeClasses() map[string]string {
	return map[string]string{
		"page":     string(ClassPage),
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"progress": string(ClassProgress),
		"errors":   string(ClassErrors),
		"notice":   string(ClassNotice),
		"actions":  string(ClassActions),
		"prefs":    string(ClassPrefs),
	}
}
