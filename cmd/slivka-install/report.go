package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/conn-castle/slivka-install/internal/install"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// printResult reports the final state of one service.
func printResult(out io.Writer, result install.ServiceResult) {
	label := result.Service.Label()
	switch result.Outcome {
	case install.OutcomeInstalled:
		_, _ = fmt.Fprintf(out, messages.CLIInstalledFmt, color.GreenString(messages.CLIStatusInstalled), label, result.Backend, result.Output)
	case install.OutcomeKept:
		_, _ = fmt.Fprintf(out, messages.CLIKeptFmt, color.GreenString(messages.CLIStatusKept), label, result.Backend, result.Output)
	case install.OutcomeSkipped:
		if result.Err != nil {
			_, _ = fmt.Fprintf(out, messages.CLISkippingErrFmt, color.YellowString(messages.CLIStatusSkipping), label, result.Err)
			return
		}
		_, _ = fmt.Fprintf(out, messages.CLISkippingFmt, color.YellowString(messages.CLIStatusSkipping), label)
	case install.OutcomeAborted:
		if result.Err != nil {
			_, _ = fmt.Fprintf(out, messages.CLIAbortedFmt, color.RedString(messages.CLIStatusAborted), label, result.Err)
		}
	}
}

// printSummary prints the outcome counts of a run that got past confirmation.
func printSummary(out io.Writer, report install.Report) {
	if len(report.Results) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, messages.CLISummaryFmt,
		report.Count(install.OutcomeInstalled),
		report.Count(install.OutcomeKept),
		report.Count(install.OutcomeSkipped),
		report.Count(install.OutcomeNoBackend),
	)
}
