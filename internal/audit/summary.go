package audit

import (
	"time"

	"github.com/ginjaninja78/ledger-scanner/internal/report"
	"github.com/ginjaninja78/ledger-scanner/internal/validation"
	"github.com/ginjaninja78/ledger-scanner/pkg/utils"
)

// Summarize collects the results of one run into a run summary.
func Summarize(runID string, start, end time.Time, results []Result) utils.RunSummary {
	summary := utils.RunSummary{
		RunID:      runID,
		StartTime:  start,
		EndTime:    end,
		TotalFiles: len(results),
	}

	for _, r := range results {
		if !r.Success {
			summary.FailedFiles++
			summary.Failed = append(summary.Failed, utils.FailedFileInfo{
				InputFile:    r.FilePath,
				ErrorMessage: errorMessage(r.Error),
			})
			continue
		}

		summary.ScannedFiles++
		summary.TotalRows += r.Stats.Rows
		summary.TotalFindings += r.Stats.Findings
		info := utils.ScannedFileInfo{
			InputFile:  r.FilePath,
			ReportFile: r.ReportFile,
			Rows:       r.Stats.Rows,
			Counts:     report.Lines(r.Findings),
			ScanTime:   r.Stats.ScanTime,
		}
		if r.Inspection != nil && r.Inspection.HasIssues() {
			info.Inspection = validation.FormatIssues(r.Inspection.Issues)
		}
		summary.Scanned = append(summary.Scanned, info)
	}

	return summary
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
