// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import "github.com/hashicorp/go-multierror"

// Valid is implemented by each type and sub-type of a Bundle. By tree-like
// calls all errors of a whole Bundle can be detected.
//
// CheckValid is fail-fast: rules are evaluated in a fixed order and only the
// first violation is returned, later rules are not evaluated at all.
// Violations evaluates every rule and returns all violations as a
// *multierror.Error, or nil.
type Valid interface {
	CheckValid() error
	Violations() error
}

// checker collects violations for a validation pass. In fail-fast mode the
// first violation ends the pass and all following rules are skipped.
type checker struct {
	errs     *multierror.Error
	failFast bool
}

// done reports if no further rule should be evaluated.
func (c *checker) done() bool {
	return c.failFast && c.errs != nil
}

// rule evaluates f unless the pass is already done.
func (c *checker) rule(f func() error) {
	if c.done() {
		return
	}

	if err := f(); err != nil {
		c.errs = multierror.Append(c.errs, err)
	}
}

// first returns the first collected violation.
func (c *checker) first() error {
	if c.errs == nil || len(c.errs.Errors) == 0 {
		return nil
	}
	return c.errs.Errors[0]
}

// validator is implemented by types that register their rules on a checker.
type validator interface {
	validate(c *checker)
}

// checkFirst runs v in fail-fast mode and returns its first violation.
func checkFirst(v validator) error {
	c := checker{failFast: true}
	v.validate(&c)
	return c.first()
}

// checkAll runs every rule of v and returns all violations.
func checkAll(v validator) error {
	c := checker{}
	v.validate(&c)
	return c.errs.ErrorOrNil()
}
