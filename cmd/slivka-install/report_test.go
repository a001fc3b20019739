package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conn-castle/slivka-install/internal/install"
)

func TestPrintResult(t *testing.T) {
	disableTestColorOutput(t)
	svc := install.Service{Base: "iupred", Name: "IUPred", Version: "1.0"}
	tests := []struct {
		name   string
		result install.ServiceResult
		want   string
	}{
		{
			name:   "installed",
			result: install.ServiceResult{Service: svc, Outcome: install.OutcomeInstalled, Backend: "docker", Output: "/p/services/iupred.service.yaml"},
			want:   "Installed IUPred:1.0 with docker: /p/services/iupred.service.yaml\n",
		},
		{
			name:   "kept",
			result: install.ServiceResult{Service: svc, Outcome: install.OutcomeKept, Backend: "conda", Output: "/p/services/iupred.service.yaml"},
			want:   "Kept existing descriptor for IUPred:1.0 (conda): /p/services/iupred.service.yaml\n",
		},
		{
			name:   "skipped after failure",
			result: install.ServiceResult{Service: svc, Outcome: install.OutcomeSkipped, Err: errors.New("pull failed")},
			want:   "Skipping IUPred:1.0: pull failed\n",
		},
		{
			name:   "skipped by choice",
			result: install.ServiceResult{Service: svc, Outcome: install.OutcomeSkipped},
			want:   "Skipping IUPred:1.0\n",
		},
		{
			name:   "aborted",
			result: install.ServiceResult{Service: svc, Outcome: install.OutcomeAborted, Err: install.ErrAborted},
			want:   "Aborted IUPred:1.0: aborted\n",
		},
		{
			name:   "no backend is already reported",
			result: install.ServiceResult{Service: svc, Outcome: install.OutcomeNoBackend},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printResult(&out, tt.result)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, install.Report{})
	assert.Empty(t, out.String())

	printSummary(&out, install.Report{Results: []install.ServiceResult{
		{Outcome: install.OutcomeInstalled},
		{Outcome: install.OutcomeInstalled},
		{Outcome: install.OutcomeNoBackend},
	}})
	assert.Equal(t, "\n2 installed, 0 kept, 0 skipped, 1 without installer\n", out.String())
}
