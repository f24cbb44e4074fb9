package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Template errors (M001-M019)

	"M001": {
		Category:   CategoryTemplate,
		Message:    "Pattern not found",
		Suggestion: "Check that an element in the template carries the matching data-pat attribute",
	},
	"M002": {
		Category:   CategoryTemplate,
		Message:    "Invalid attribute binding",
		Suggestion: "Attribute bindings accept scalars and sequences of scalars, not elements",
	},
	"M003": {
		Category:   CategoryTemplate,
		Message:    "Template fetch failed",
		Suggestion: "Check that the template URL is reachable",
	},
	"M004": {
		Category:   CategoryTemplate,
		Message:    "Template parse failed",
		Suggestion: "Check that the template source is an HTML document or fragment",
	},
	"M005": {
		Category: CategoryTemplate,
		Message:  "Deferred slot value failed",
	},

	// State errors (M020-M039)

	"M020": {
		Category: CategoryState,
		Message:  "Method not found on selected state",
	},
	"M021": {
		Category:   CategoryState,
		Message:    "Dialog not found",
		Suggestion: "Check that the document has a <dialog> with the given id",
	},
	"M022": {
		Category: CategoryState,
		Message:  "Dialog method failed",
	},

	// Config errors (M040-M059)

	"M040": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create mumu.json or pass --config",
	},
	"M041": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check that mumu.json is valid JSON",
	},

	// CLI errors (M060-M079)

	"M060": {
		Category:   CategoryCLI,
		Message:    "Invalid slot argument",
		Suggestion: "Slots are given as --slot name=value",
	},

	// Protocol errors (M080-M099)

	"M080": {
		Category: CategoryProtocol,
		Message:  "Invalid client event",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
