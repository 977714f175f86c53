package errors

import "sort"

// Registered error codes.
const (
	CodeRenderFailure     = "W001"
	CodeUnknownPartial    = "W002"
	CodeInvalidAttribute  = "W003"
	CodeInvalidIslandName = "W004"
	CodeRenderTimeout     = "W005"
	CodeConfigInvalid     = "W010"
	CodeConfigRead        = "W011"
	CodeUnknownCommand    = "W020"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Render errors (W001-W009)

	CodeRenderFailure: {
		Category: CategoryRender,
		Message:  "Render failure",
		Detail:   "A component returned an error, panicked, or its deferred result was rejected. The subtree was replaced by a render-error comment.",
	},
	CodeUnknownPartial: {
		Category: CategoryDispatch,
		Message:  "Unknown partial",
		Detail:   "No partial or island handler is registered under the requested name.",
	},
	CodeInvalidAttribute: {
		Category: CategoryRender,
		Message:  "Invalid attribute value",
		Detail:   "Attribute values must be strings, numbers, booleans, string slices or JSON-encodable objects. Functions and channels cannot be serialized.",
	},
	CodeInvalidIslandName: {
		Category: CategoryDispatch,
		Message:  "Invalid island name",
		Detail:   "Island and partial names must be non-empty and contain only letters, digits, '-' and '_'.",
	},
	CodeRenderTimeout: {
		Category: CategoryRender,
		Message:  "Render cancelled",
		Detail:   "The render context was cancelled or its deadline passed while a deferred child was pending.",
	},

	// Config errors (W010-W019)

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value failed validation.",
	},
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Configuration could not be read",
		Detail:   "The configuration file exists but could not be read or parsed.",
	},

	// CLI errors (W020-W029)

	CodeUnknownCommand: {
		Category: CategoryCLI,
		Message:  "Unknown command",
		Detail:   "Run 'weave --help' to list the available commands.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
