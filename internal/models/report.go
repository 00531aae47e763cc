package models

// ClassificationResult partitions an inventory into functions to delete and functions to keep
type ClassificationResult struct {
	ToDelete []FunctionRecord
	Kept     []FunctionRecord
	Skipped  []SkipReason // Records that could not be evaluated, also present in Kept
}

// DeletionResult holds the per-function outcome of a deletion pass
type DeletionResult struct {
	Successful []string // Deleted function names
	Failed     []string // "name: error" entries
}

// RunReport summarizes one cleanup run
type RunReport struct {
	Environment       string
	RetentionDays     int
	DryRun            bool
	TotalFunctions    int
	FunctionsAnalyzed int
	FunctionsDeleted  int
	DeletionErrors    int
	DeletedFunctions  []string
	FailedDeletions   []string
	ToDelete          []FunctionRecord
	Skipped           []SkipReason
}
