// SPDX-FileCopyrightText: 2019, 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"github.com/dtn7/dtn7-bpv7/pkg/bpv7"
)

// tomlConfig describes the TOML-configuration.
type tomlConfig struct {
	Logging logConf
	Bundle  bundleConf
}

// logConf describes the Logging-configuration block.
type logConf struct {
	Level        string
	ReportCaller bool `toml:"report-caller"`
	Format       string
}

// bundleConf describes the defaults for newly created Bundles.
type bundleConf struct {
	Lifetime  string
	HopLimit  uint8 `toml:"hop-limit"`
	CRC       string
	BundleAge bool   `toml:"bundle-age"`
	ReportTo  string `toml:"report-to"`
}

// defaultConfig is used if no configuration file was given and as the base for one.
func defaultConfig() tomlConfig {
	return tomlConfig{
		Bundle: bundleConf{
			Lifetime: "24h",
			HopLimit: 64,
			CRC:      "32",
		},
	}
}

// loadConfig reads a TOML file on top of the defaultConfig. An empty filename
// results in the defaultConfig.
func loadConfig(filename string) (conf tomlConfig, err error) {
	conf = defaultConfig()
	if filename == "" {
		return
	}

	if _, err = toml.DecodeFile(filename, &conf); err != nil {
		err = fmt.Errorf("parsing configuration %s failed: %w", filename, err)
		return
	}

	if _, crcErr := parseCRCType(conf.Bundle.CRC); crcErr != nil {
		err = crcErr
	}
	return
}

// apply the logging configuration to logrus' standard logger.
func (lc logConf) apply() {
	if lc.Level != "" {
		if lvl, err := log.ParseLevel(lc.Level); err != nil {
			log.WithFields(log.Fields{
				"level":    lc.Level,
				"error":    err,
				"provided": "panic,fatal,error,warn,info,debug,trace",
			}).Warn("Failed to set log level. Please select one of the provided ones")
		} else {
			log.SetLevel(lvl)
		}
	}

	log.SetReportCaller(lc.ReportCaller)

	switch lc.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})

	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	default:
		log.WithField("format", lc.Format).Warn("Unknown logging format")
	}
}

// parseCRCType from its configuration name, "no", "16" or "32".
func parseCRCType(name string) (bpv7.CRCType, error) {
	switch name {
	case "", "no", "none":
		return bpv7.CRCNo, nil
	case "16":
		return bpv7.CRC16, nil
	case "32":
		return bpv7.CRC32, nil
	default:
		return bpv7.CRCNo, fmt.Errorf("unknown CRC type %q, select one of no, 16 or 32", name)
	}
}
