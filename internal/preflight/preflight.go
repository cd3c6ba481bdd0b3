package preflight

import (
	"audiodefault/internal/config"
	"audiodefault/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a scan of root needs. The root check is
// omitted when root is empty.
func RunAll(cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range deps.CheckBinaries(deps.ToolRequirements(cfg)) {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}

	if root != "" {
		results = append(results, CheckDirectoryReadable("Scan root", root))
	}
	results = append(results, CheckDirectoryAccess("Report directory", cfg.Output.ReportDir))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
