// SPDX-FileCopyrightText: 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ulikunitz/xz"

	"github.com/dtn7/dtn7-bpv7/pkg/bpv7"
)

// stdio names stdin or stdout as a file argument.
const stdio = "-"

// isXz reports if a file is xz compressed, based on its name.
func isXz(name string) bool {
	return strings.HasSuffix(name, ".xz")
}

type readCloser struct {
	io.Reader
	io.Closer
}

// writeCloser closes all its closers in order, e.g., an xz stream before its file.
type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (wc writeCloser) Close() error {
	var errs *multierror.Error
	for _, c := range wc.closers {
		if err := c.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// openInput opens a file for reading, stdin for "-". Files ending in ".xz" are decompressed.
func openInput(name string) (io.ReadCloser, error) {
	if name == stdio {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !isXz(name) {
		return f, nil
	}

	xzR, err := xz.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return readCloser{Reader: xzR, Closer: f}, nil
}

// createOutput creates a file for writing, stdout for "-". Files ending in ".xz" are compressed.
func createOutput(name string) (io.WriteCloser, error) {
	if name == stdio {
		return writeCloser{Writer: os.Stdout}, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !isXz(name) {
		return f, nil
	}

	xzW, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return writeCloser{Writer: xzW, closers: []io.Closer{xzW, f}}, nil
}

// readAll of a file or stdin.
func readAll(name string) (data []byte, err error) {
	f, err := openInput(name)
	if err != nil {
		return
	}

	data, err = io.ReadAll(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return
}

// readBundleFile decodes a Bundle from a file or stdin without validating it.
func readBundleFile(name string) (b bpv7.Bundle, err error) {
	f, err := openInput(name)
	if err != nil {
		return
	}

	b, err = bpv7.DecodeBundle(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return
}

// writeBundleFile writes a Bundle's CBOR representation to a file or stdout.
func writeBundleFile(b bpv7.Bundle, name string) error {
	f, err := createOutput(name)
	if err != nil {
		return err
	}

	if err := b.WriteBundle(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
