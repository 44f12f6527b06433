package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Programming Errors (P001-P099)
	// ============================================

	"P001": {
		Category: CategoryProgramming,
		Message:  "Nil function",
		Detail:   "A transformer, aggregator, predicate or listener function was nil.",
	},
	"P002": {
		Category: CategoryProgramming,
		Message:  "Nil property",
		Detail:   "A source or target property was nil.",
	},
	"P010": {
		Category: CategoryProgramming,
		Message:  "Index out of range",
	},
	"P011": {
		Category: CategoryProgramming,
		Message:  "Invalid range",
		Detail:   "The start of a range must not be greater than its end.",
	},
	"P020": {
		Category: CategoryProgramming,
		Message:  "Transform needs exactly one source",
		Detail:   "A transformer maps one input value; several sources must be folded with an aggregator.",
	},
	"P021": {
		Category: CategoryProgramming,
		Message:  "Aggregate of zero values has no identity",
		Detail:   "The aggregator has no vacuous result for an empty input.",
	},
	"P030": {
		Category: CategoryProgramming,
		Message:  "Invalid change payload",
		Detail:   "A change event needs old values, new values, or both.",
	},

	// ============================================
	// Listener Errors (L001-L099)
	// ============================================

	"L001": {
		Category: CategoryListener,
		Message:  "Listener panicked during change notification",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Config file not readable",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Config file not valid JSON",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Scenario Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategoryScenario,
		Message:  "Scenario file not readable",
	},
	"S002": {
		Category: CategoryScenario,
		Message:  "Scenario file not valid YAML",
	},
	"S003": {
		Category: CategoryScenario,
		Message:  "Unknown property",
	},
	"S004": {
		Category: CategoryScenario,
		Message:  "Invalid scenario step",
	},
	"S005": {
		Category: CategoryScenario,
		Message:  "Expectation failed",
	},
	"S006": {
		Category: CategoryScenario,
		Message:  "Event replay mismatch",
		Detail:   "Replaying the recorded list events did not reproduce the list content.",
	},

	// ============================================
	// CLI Errors (X001-X099)
	// ============================================

	"X001": {
		Category: CategoryCLI,
		Message:  "Missing argument",
	},
}

// GetAllCodes returns all registered error codes, sorted.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
