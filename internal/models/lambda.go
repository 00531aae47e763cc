package models

// FunctionStateActive is the only lifecycle state eligible for deletion
const FunctionStateActive = "Active"

// FunctionRecord represents a snapshot of a deployed Lambda function
type FunctionRecord struct {
	FunctionName string            // Lambda function name
	FunctionArn  string            // Function ARN
	LastModified string            // Last modification time as reported by the API
	Runtime      string            // Runtime (e.g., nodejs20.x, python3.12)
	Tags         map[string]string // Function tags
	Description  string            // Function description (if available)
	State        string            // Lifecycle state (Active, Inactive, Pending, Failed)
	PackageType  string            // Zip or Image
}

// Skip stages
const (
	SkipStageDetail    = "detail"
	SkipStageTags      = "tags"
	SkipStageTimestamp = "timestamp"
)

// SkipReason records why a function was left out of a run
type SkipReason struct {
	FunctionName string
	Stage        string
	Err          string
}

// Inventory is the result of scanning the account for functions
type Inventory struct {
	Functions []FunctionRecord
	Skipped   []SkipReason
}
