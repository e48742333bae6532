package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates. Runtime errors are
// F0xx, hydration F1xx, protocol F2xx, template F3xx, config F4xx,
// upload F5xx.
var registry = map[string]ErrorTemplate{
	"F001": {
		Category:   CategoryRuntime,
		Message:    "Signal written from a computed",
		Suggestion: "Computed values must be pure. Move the write into an effect or event handler.",
		DocURL:     "https://filament-ui.dev/docs/errors/F001",
	},
	"F002": {
		Category:   CategoryRuntime,
		Message:    "Effect created on a destroyed scope",
		Suggestion: "Check IsDestroyed before registering work in async callbacks.",
		DocURL:     "https://filament-ui.dev/docs/errors/F002",
	},
	"F003": {
		Category:   CategoryRuntime,
		Message:    "Component mounted twice",
		Suggestion: "An instance can mount once. Create a new instance for each mount point.",
		DocURL:     "https://filament-ui.dev/docs/errors/F003",
	},
	"F004": {
		Category:   CategoryRuntime,
		Message:    "Provide called outside a scope",
		Suggestion: "Provide only works during component setup, inside an owning scope.",
		DocURL:     "https://filament-ui.dev/docs/errors/F004",
	},

	"F101": {
		Category:   CategoryHydration,
		Message:    "Hydration markup mismatch",
		Suggestion: "The server and client must render the same component with the same props. Falling back to a fresh mount.",
		DocURL:     "https://filament-ui.dev/docs/errors/F101",
	},
	"F102": {
		Category:   CategoryHydration,
		Message:    "Hydration container is empty",
		Suggestion: "Pass the element that contains the server-rendered markup.",
		DocURL:     "https://filament-ui.dev/docs/errors/F102",
	},

	"F201": {
		Category:   CategoryProtocol,
		Message:    "Unknown live session",
		Suggestion: "The session may have expired. Reload the page to start a new one.",
		DocURL:     "https://filament-ui.dev/docs/errors/F201",
	},
	"F202": {
		Category:   CategoryProtocol,
		Message:    "Malformed client message",
		Suggestion: "The frame was not valid JSON or missed required fields.",
		DocURL:     "https://filament-ui.dev/docs/errors/F202",
	},
	"F203": {
		Category:   CategoryProtocol,
		Message:    "Event target no longer exists",
		Suggestion: "A patch replaced the target before the event arrived. The client should re-resolve paths after each patch.",
		DocURL:     "https://filament-ui.dev/docs/errors/F203",
	},

	"F301": {
		Category:   CategoryTemplate,
		Message:    "Template source is empty",
		Suggestion: "Parse requires at least one element, text, or comment node.",
		DocURL:     "https://filament-ui.dev/docs/errors/F301",
	},
	"F302": {
		Category:   CategoryTemplate,
		Message:    "Slot index out of range",
		Suggestion: "Slot indices follow document order over elements and comments. Recount after editing the template.",
		DocURL:     "https://filament-ui.dev/docs/errors/F302",
	},

	"F401": {
		Category:   CategoryConfig,
		Message:    "Invalid server configuration",
		Suggestion: "Check the option values passed to live.NewServer.",
		DocURL:     "https://filament-ui.dev/docs/errors/F401",
	},

	"F501": {
		Category:   CategoryUpload,
		Message:    "Upload store unavailable",
		Suggestion: "Configure a store with live.WithUploadStore before using file inputs.",
		DocURL:     "https://filament-ui.dev/docs/errors/F501",
	},
	"F502": {
		Category:   CategoryUpload,
		Message:    "Uploaded file not found",
		Suggestion: "Temp files are claimed once and expire. Claim them promptly in the change handler.",
		DocURL:     "https://filament-ui.dev/docs/errors/F502",
	},
}

// Lookup returns the registered template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
