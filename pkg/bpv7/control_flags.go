// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

// flagSet is the underlying representation of both control flag types.
type flagSet interface {
	~uint8 | ~uint64
}

// flagRule is a combination of flags which must not occur.
type flagRule[F flagSet] struct {
	violated func(F) bool
	msg      string
}

// flagText maps a single flag to its textual representation.
type flagText[F flagSet] struct {
	field F
	text  string
}

// validateFlags registers the checks of a control flag set: at first, no
// reserved bit must be set, followed by the given rules in their order.
//
// The reserved mask is reduced by all named flags, as the fixed wire masks
// overlap with some of them.
func validateFlags[F flagSet](c *checker, flags, reserved, named F, kind ErrorKind, rules ...flagRule[F]) {
	c.rule(func() error {
		if bits := flags & (reserved &^ named); bits != 0 {
			return newError(kind, "Given flag contains reserved bits: %#x", uint64(bits))
		}
		return nil
	})

	for _, r := range rules {
		r := r
		c.rule(func() error {
			if r.violated(flags) {
				return newError(kind, "%s", r.msg)
			}
			return nil
		})
	}
}

// flagStrings returns the texts of all set flags.
func flagStrings[F flagSet](flags F, texts []flagText[F]) (fields []string) {
	for _, t := range texts {
		if flags&t.field != 0 {
			fields = append(fields, t.text)
		}
	}
	return
}

// parseFlagStrings is the inverse of flagStrings.
func parseFlagStrings[F flagSet](fields []string, texts []flagText[F], kind ErrorKind) (flags F, err error) {
fieldLoop:
	for _, field := range fields {
		for _, t := range texts {
			if t.text == field {
				flags |= t.field
				continue fieldLoop
			}
		}

		err = newError(kind, "unknown flag %q", field)
		return
	}
	return
}
