// SPDX-FileCopyrightText: 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/dtn7/dtn7-bpv7/pkg/bpv7"
)

// newCheckCmd for the "check" sub-command.
func newCheckCmd(_ *tool) *cobra.Command {
	return &cobra.Command{
		Use:   "check -|FILE...",
		Short: "Validate Bundles and list all their violations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var invalid int
			for _, input := range args {
				b, err := readBundleFile(input)
				if err != nil {
					invalid++
					_, _ = fmt.Fprintf(out, "%s: %v\n", input, err)
					continue
				}

				violations := bundleViolations(b)
				if len(violations) == 0 {
					_, _ = fmt.Fprintf(out, "%s: %v is valid\n", input, b.ID())
					continue
				}

				invalid++
				_, _ = fmt.Fprintf(out, "%s: %v has %d violation(s)\n", input, b.ID(), len(violations))
				for _, v := range violations {
					kind, _ := bpv7.KindOf(v)
					_, _ = fmt.Fprintf(out, "  - [%v] %v\n", kind, v)
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d Bundle(s) are invalid", invalid, len(args))
			}
			return nil
		},
	}
}

// bundleViolations lists each violation of a Bundle, nil for a valid one.
func bundleViolations(b bpv7.Bundle) []error {
	err := b.Violations()
	if err == nil {
		return nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}
