package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/slivka-install/internal/backend"
	"github.com/conn-castle/slivka-install/internal/config"
	"github.com/conn-castle/slivka-install/internal/doctor"
	"github.com/conn-castle/slivka-install/internal/messages"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			source, configPath, optional, err := resolveSource(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, source)

			results, cfg := doctor.CheckConfig(configPath, optional)
			if cfg != nil {
				applyExeFlags(cfg, opts)
				paths := cfg.ResolvePaths(source, configPath)
				results = append(results, doctor.CheckStructure(paths)...)
				results = append(results, doctor.CheckServices(paths)...)
				results = append(results, doctor.CheckExecutables(backend.RealSystem{}, cfg)...)
			}
			for _, r := range results {
				printCheck(out, r)
			}
			if doctor.HasFailure(results) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printCheck(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}
	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	for i, line := range strings.Split(recommendation, "\n") {
		prefix := messages.DoctorRecommendationIndent
		if i == 0 {
			prefix = messages.DoctorRecommendationPrefix
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", prefix, line)
	}
}

// applyExeFlags lets --conda-exe and --docker-exe override the settings file.
func applyExeFlags(cfg *config.Config, opts *rootOptions) {
	if opts.condaExe != "" {
		cfg.Conda.Exe = opts.condaExe
	}
	if opts.dockerExe != "" {
		cfg.Docker.Exe = opts.dockerExe
	}
}
