// SPDX-FileCopyrightText: 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dtn7/dtn7-bpv7/pkg/bpv7"
)

// newWatchCmd for the "watch" sub-command.
func newWatchCmd(_ *tool) *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIRECTORY",
		Short: "Check each Bundle file created within a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dw, err := newDirWatcher(args[0], logCheckedBundle)
			if err != nil {
				return err
			}

			closeChan := make(chan os.Signal, 1)
			signal.Notify(closeChan, os.Interrupt)
			defer signal.Stop(closeChan)

			stopChan := make(chan struct{})
			handlerDone := make(chan struct{})
			defer close(handlerDone)

			go func() {
				select {
				case <-closeChan:
					log.Info("Received interrupt signal")
					close(stopChan)
				case <-handlerDone:
				}
			}()

			return dw.handler(stopChan)
		},
	}
}

// checkedBundle is the outcome of reading a new file.
type checkedBundle struct {
	file       string
	bundle     bpv7.Bundle
	violations []error
	err        error
}

// logCheckedBundle reports a checkedBundle.
func logCheckedBundle(cb checkedBundle) {
	logger := log.WithField("file", cb.file)

	switch {
	case cb.err != nil:
		logger.WithError(cb.err).Error("Failed to read Bundle")

	case len(cb.violations) > 0:
		logger = logger.WithField("bundle", cb.bundle.ID().String())
		for _, v := range cb.violations {
			logger.WithError(v).Warn("Bundle violation")
		}

	default:
		logger.WithField("bundle", cb.bundle.ID().String()).Info("Bundle is valid")
	}
}

// dirWatcher checks Bundles dropped into a directory.
type dirWatcher struct {
	directory string
	watcher   *fsnotify.Watcher
	report    func(checkedBundle)

	retries int
	backoff time.Duration
}

// newDirWatcher for a directory, passing each checked file to report.
func newDirWatcher(directory string, report func(checkedBundle)) (dw *dirWatcher, err error) {
	dw = &dirWatcher{
		directory: directory,
		report:    report,
		retries:   5,
		backoff:   100 * time.Millisecond,
	}

	if dw.watcher, err = fsnotify.NewWatcher(); err != nil {
		return
	}
	if err = dw.watcher.Add(directory); err != nil {
		_ = dw.watcher.Close()
	}
	return
}

// handler processes fsnotify events until stopChan is closed or fsnotify
// fails. Only the latter results in an error.
func (dw *dirWatcher) handler(stopChan <-chan struct{}) error {
	defer func() { _ = dw.watcher.Close() }()

	for {
		select {
		case <-stopChan:
			return nil

		case e, ok := <-dw.watcher.Events:
			if !ok {
				return errors.New("fsnotify's Event channel was closed")
			}

			if e.Op&fsnotify.Create == 0 {
				log.WithFields(log.Fields{
					"file":      e.Name,
					"operation": e.Op.String(),
				}).Debug("Ignoring fsnotify event")
				continue
			}

			dw.report(dw.readNewFile(e.Name))

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return errors.New("fsnotify's Errors channel was closed")
			}

			return fmt.Errorf("fsnotify errored: %w", err)
		}
	}
}

// readNewFile retries with an exponential backoff, as a new file might still be written.
func (dw *dirWatcher) readNewFile(name string) (cb checkedBundle) {
	cb.file = name

	for i := 0; i < dw.retries; i++ {
		if cb.bundle, cb.err = readBundleFile(name); cb.err == nil {
			cb.violations = bundleViolations(cb.bundle)
			return
		}

		log.WithError(cb.err).WithField("file", name).Debug("Reading Bundle errored, retrying..")
		time.Sleep(time.Duration(math.Pow(2, float64(i))) * dw.backoff)
	}

	return
}
