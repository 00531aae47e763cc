package formatter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/younsl/lambda-function-manager/internal/models"
	"github.com/younsl/lambda-function-manager/pkg/utils"
)

// Result labels
const (
	resultDeleted = "Deleted"
	resultFailed  = "Failed"
	resultDryRun  = "Would delete"
)

// PrintCleanupTable formats and prints the functions selected for deletion in a table
func PrintCleanupTable(w io.Writer, report models.RunReport, startTime time.Time, duration time.Duration) {
	printTimestamp(w, startTime, duration)

	// Early return if no results
	if len(report.ToDelete) == 0 {
		fmt.Fprintln(w, "No Lambda functions selected for deletion.")
		return
	}

	functions := append([]models.FunctionRecord(nil), report.ToDelete...)

	sortOldestFirst(functions)

	// Use tabwriter for aligned columns with kubectl style spacing
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	// Print header
	fmt.Fprintln(tw, "FUNCTION\tRUNTIME\tPACKAGE\tLAST MODIFIED\tAGE DAYS\tRESULT")

	for _, function := range functions {
		// Format last modified
		lastModified := "Unknown"
		ageDays := "-"
		if t, err := utils.ParseLastModified(function.LastModified); err == nil {
			lastModified = humanize.Time(t)
			ageDays = strconv.Itoa(utils.CalculateElapsedDays(t))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateString(function.FunctionName, 50),
			function.Runtime,
			function.PackageType,
			lastModified,
			ageDays,
			deletionResult(report, function.FunctionName),
		)
	}

	// Print totals
	fmt.Fprintf(tw, "Total:\t\t\t\t%d\t%d deleted, %d failed\n",
		len(functions),
		report.FunctionsDeleted,
		report.DeletionErrors,
	)

	// Flush the tabwriter buffer
	tw.Flush()
}

// sortOldestFirst orders functions by parsed LastModified; unparseable timestamps go last
func sortOldestFirst(functions []models.FunctionRecord) {
	parsed := make(map[string]time.Time, len(functions))
	for _, function := range functions {
		if t, err := utils.ParseLastModified(function.LastModified); err == nil {
			parsed[function.FunctionName] = t
		}
	}

	sort.SliceStable(functions, func(i, j int) bool {
		ti, okI := parsed[functions[i].FunctionName]
		tj, okJ := parsed[functions[j].FunctionName]
		if okI != okJ {
			return okI
		}
		return ti.Before(tj)
	})
}

// deletionResult returns the outcome label of a selected function
func deletionResult(report models.RunReport, name string) string {
	if report.DryRun {
		return resultDryRun
	}
	for _, deleted := range report.DeletedFunctions {
		if deleted == name {
			return resultDeleted
		}
	}
	for _, failed := range report.FailedDeletions {
		if strings.HasPrefix(failed, name+": ") {
			return resultFailed
		}
	}
	return "-"
}

// PrintCleanupSummary displays the run counters and any skipped functions
func PrintCleanupSummary(w io.Writer, report models.RunReport) {
	fmt.Fprintln(w, "\n## Lambda Cleanup Summary")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ENVIRONMENT\tRETENTION\tTOTAL\tSELECTED\tDELETED\tERRORS")
	fmt.Fprintf(tw, "%s\t%d days\t%d\t%d\t%d\t%d\n",
		report.Environment,
		report.RetentionDays,
		report.TotalFunctions,
		report.FunctionsAnalyzed,
		report.FunctionsDeleted,
		report.DeletionErrors,
	)
	tw.Flush()

	if len(report.FailedDeletions) > 0 {
		fmt.Fprintln(w, "\n## Failed Deletions")
		for _, failed := range report.FailedDeletions {
			fmt.Fprintf(w, "  %s\n", failed)
		}
	}

	if len(report.Skipped) == 0 {
		return
	}

	fmt.Fprintln(w, "\n## Skipped Functions")

	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tSTAGE\tREASON")
	for _, skip := range report.Skipped {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			truncateString(skip.FunctionName, 50),
			skip.Stage,
			truncateString(skip.Err, 80),
		)
	}
	tw.Flush()
}
