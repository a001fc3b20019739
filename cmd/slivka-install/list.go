package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/slivka-install/internal/backend"
	"github.com/conn-castle/slivka-install/internal/install"
	"github.com/conn-castle/slivka-install/internal/messages"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := loadSettings(opts)
			if err != nil {
				return err
			}
			services, err := install.Discover(paths.ServicesDir, opts.services)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(services) == 0 {
				_, err := fmt.Fprintf(out, messages.ListEmptyFmt, paths.ServicesDir)
				return err
			}
			candidates := []backend.Backend{&backend.Conda{}, &backend.Docker{}}
			for _, svc := range services {
				var names []string
				for _, b := range candidates {
					if b.Applicable(svc.Path) {
						names = append(names, b.Name())
					}
				}
				installers := messages.ListNoInstaller
				if len(names) > 0 {
					installers = strings.Join(names, ", ")
				}
				if _, err := fmt.Fprintf(out, messages.ListLineFmt, svc.Label(), svc.Base, installers); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
