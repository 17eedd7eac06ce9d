// SPDX-FileCopyrightText: 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newShowCmd for the "show" sub-command.
func newShowCmd(_ *tool) *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "show -|FILE",
		Short: "Print a human-readable JSON version of a Bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bMsg, err := showBundle(args[0], indent)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bMsg))
			return err
		},
	}

	cmd.Flags().BoolVarP(&indent, "indent", "i", false, "indent the JSON output")

	return cmd
}

// showBundle reads a Bundle and returns its JSON representation.
func showBundle(input string, indent bool) ([]byte, error) {
	b, err := readBundleFile(input)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling Bundle errored: %w", err)
	}

	bMsg, err := b.MarshalJSON()
	if err != nil || !indent {
		return bMsg, err
	}

	var buff bytes.Buffer
	if err := json.Indent(&buff, bMsg, "", "  "); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}
