package models

// RetentionConfig holds the parameters of a single cleanup run
type RetentionConfig struct {
	RetentionDays     int
	Environment       string
	ProtectedPatterns []string // Regular expressions matched at the start of the name
	ProtectedTagKeys  []string // Tag keys that exempt a function, value is ignored
	DryRun            bool     // Classify only, issue no deletions
}
