// SPDX-FileCopyrightText: 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/hex"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dtn7/dtn7-bpv7/pkg/bpv7"
)

// newCreateCmd for the "create" sub-command.
func newCreateCmd(t *tool) *cobra.Command {
	var flags bundleConf

	cmd := &cobra.Command{
		Use:   "create SENDER RECEIVER -|FILE [OUT]",
		Short: "Create a new Bundle with the stdin or a file as its payload",
		Long: `Creates a new Bundle, addressed from SENDER to RECEIVER, with the stdin (-) or
the given FILE as payload. The Bundle is written to OUT, the stdout for "-" or,
if OUT is missing, a file named after the hex encoded Bundle ID. Files ending
in ".xz" are compressed.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := t.conf.Bundle
			fs := cmd.Flags()
			if fs.Changed("lifetime") {
				conf.Lifetime = flags.Lifetime
			}
			if fs.Changed("hop-limit") {
				conf.HopLimit = flags.HopLimit
			}
			if fs.Changed("crc") {
				conf.CRC = flags.CRC
			}
			if fs.Changed("bundle-age") {
				conf.BundleAge = flags.BundleAge
			}
			if fs.Changed("report-to") {
				conf.ReportTo = flags.ReportTo
			}

			data, err := readAll(args[2])
			if err != nil {
				return err
			}

			b, err := createBundle(conf, args[0], args[1], data)
			if err != nil {
				return err
			}

			var outName string
			if len(args) == 4 {
				outName = args[3]
			} else {
				outName = hex.EncodeToString([]byte(b.ID().String()))
			}

			if err := writeBundleFile(b, outName); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"bundle": b.ID().String(),
				"file":   outName,
			}).Info("Created Bundle")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.Lifetime, "lifetime", "", "lifetime as a duration, e.g., 24h")
	fs.Uint8Var(&flags.HopLimit, "hop-limit", 0, "hop limit of the Hop Count Block, 0 to omit it")
	fs.StringVar(&flags.CRC, "crc", "", "CRC type of all blocks: no, 16 or 32")
	fs.BoolVar(&flags.BundleAge, "bundle-age", false, "add a Bundle Age Block")
	fs.StringVar(&flags.ReportTo, "report-to", "", "report-to endpoint, the sender otherwise")

	return cmd
}

// createBundle builds a Bundle from sender to receiver, carrying data as its payload.
func createBundle(conf bundleConf, sender, receiver string, data []byte) (bpv7.Bundle, error) {
	crcType, err := parseCRCType(conf.CRC)
	if err != nil {
		return bpv7.Bundle{}, err
	}

	bldr := bpv7.Builder().
		CRC(crcType).
		Source(sender).
		Destination(receiver).
		CreationTimestampNow().
		Lifetime(conf.Lifetime)

	if conf.ReportTo != "" {
		bldr.ReportTo(conf.ReportTo)
	}
	if conf.HopLimit > 0 {
		bldr.HopCountBlock(conf.HopLimit)
	}
	if conf.BundleAge {
		bldr.BundleAgeBlock(uint64(0))
	}

	return bldr.PayloadBlock(data).Build()
}
