// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EndpointScheme is the numeric URI scheme code of an EndpointID.
type EndpointScheme uint64

const (
	// SchemeDTN is the "dtn" URI scheme.
	SchemeDTN EndpointScheme = 1

	// SchemeIPN is the "ipn" URI scheme, RFC 6260.
	SchemeIPN EndpointScheme = 2
)

const dtnNoneSsp = "none"

var (
	dtnSspRegexp = regexp.MustCompile(`^//([^/]+)/(.*)$`)
	ipnSspRegexp = regexp.MustCompile(`^(\d+)\.(\d+)$`)
)

func (s EndpointScheme) String() string {
	switch s {
	case SchemeDTN:
		return "dtn"
	case SchemeIPN:
		return "ipn"
	default:
		return fmt.Sprintf("unknown_%d", uint64(s))
	}
}

// EndpointID represents an Endpoint ID as defined in section 4.2.5.1. It
// consists of the scheme and its scheme-specific part (SSP), e.g., "//foo/bar"
// for "dtn://foo/bar" or "23.42" for "ipn:23.42". EndpointIDs are compared by
// value.
type EndpointID struct {
	Scheme EndpointScheme
	SSP    string
}

// DtnNone returns the null endpoint "dtn:none".
func DtnNone() EndpointID {
	return EndpointID{Scheme: SchemeDTN, SSP: dtnNoneSsp}
}

// NewEndpointID parses an URI, e.g., "dtn:none", "dtn://foo/bar" or "ipn:1.2".
func NewEndpointID(uri string) (e EndpointID, err error) {
	name, ssp, found := strings.Cut(uri, ":")
	if !found {
		err = newError(EndpointIDError, "%q is no URI", uri)
		return
	}

	switch name {
	case SchemeDTN.String():
		e = EndpointID{Scheme: SchemeDTN, SSP: ssp}
	case SchemeIPN.String():
		e = EndpointID{Scheme: SchemeIPN, SSP: ssp}
	default:
		err = newError(EndpointIDError, "unknown scheme %q", name)
		return
	}

	err = e.CheckValid()
	return
}

// MustNewEndpointID returns a new EndpointID like NewEndpointID, but panics
// in case of an error.
func MustNewEndpointID(uri string) EndpointID {
	e, err := NewEndpointID(uri)
	if err != nil {
		panic(err)
	}
	return e
}

// IsNull checks if this EndpointID is the null endpoint "dtn:none".
func (e EndpointID) IsNull() bool {
	return e == DtnNone()
}

// ipnNumbers returns the node and service number of an ipn SSP.
func (e EndpointID) ipnNumbers() (node, service uint64, err error) {
	matches := ipnSspRegexp.FindStringSubmatch(e.SSP)
	if len(matches) != 3 {
		err = newError(EndpointIDError, "ipn SSP %q does not match node.service", e.SSP)
		return
	}

	if node, err = strconv.ParseUint(matches[1], 10, 64); err != nil {
		err = wrapError(EndpointIDError, err)
		return
	}
	if service, err = strconv.ParseUint(matches[2], 10, 64); err != nil {
		err = wrapError(EndpointIDError, err)
		return
	}
	return
}

// Authority is the authority part of the Endpoint URI, e.g., "foo" for
// "dtn://foo/bar" or "23" for "ipn:23.42".
func (e EndpointID) Authority() string {
	switch e.Scheme {
	case SchemeDTN:
		if e.SSP == dtnNoneSsp {
			return dtnNoneSsp
		}
		if m := dtnSspRegexp.FindStringSubmatch(e.SSP); len(m) == 3 {
			return m[1]
		}
	case SchemeIPN:
		if node, _, err := e.ipnNumbers(); err == nil {
			return strconv.FormatUint(node, 10)
		}
	}
	return ""
}

func (e EndpointID) validate(c *checker) {
	c.rule(func() error {
		switch e.Scheme {
		case SchemeDTN:
			if e.SSP != dtnNoneSsp && !dtnSspRegexp.MatchString(e.SSP) {
				return newError(EndpointIDError, "dtn SSP %q is neither none nor //authority/path", e.SSP)
			}
			return nil

		case SchemeIPN:
			node, service, err := e.ipnNumbers()
			if err != nil {
				return err
			} else if node < 1 || service < 1 {
				return newError(EndpointIDError, "ipn's node and service number must be >= 1")
			}
			return nil

		default:
			return newError(EndpointIDError, "unknown scheme %d", uint64(e.Scheme))
		}
	})
}

// CheckValid returns an error for an unknown scheme or a malformed SSP.
func (e EndpointID) CheckValid() error {
	return checkFirst(e)
}

// Violations returns all violations of this EndpointID.
func (e EndpointID) Violations() error {
	return checkAll(e)
}

func (e EndpointID) String() string {
	return fmt.Sprintf("%v:%s", e.Scheme, e.SSP)
}

// MarshalJSON writes this EndpointID's URI as a JSON string.
func (e EndpointID) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON reads an EndpointID from a JSON string.
func (e *EndpointID) UnmarshalJSON(data []byte) error {
	var uri string
	if err := json.Unmarshal(data, &uri); err != nil {
		return wrapError(JSONDecodeError, err)
	}

	tmp, err := NewEndpointID(uri)
	if err != nil {
		return &Error{Kind: JSONDecodeError, Msg: "invalid endpoint", Err: err}
	}

	*e = tmp
	return nil
}
