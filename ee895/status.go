// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import (
	"errors"
	"fmt"
)

// Status classifies the outcome of an operation. The strings are kept as the
// vendor tools print them.
type Status int

const (
	Success Status = iota
	// NotAcknowledged means the transaction failed on the bus, or the reply
	// did not have the expected size.
	NotAcknowledged
	// ChecksumError means a reply arrived but its CRC did not match. The
	// data is discarded.
	ChecksumError
	// RegisterWriteMismatch means the write echo differed from the request.
	// The write may or may not have been applied.
	RegisterWriteMismatch
	// InvalidIntervalInput is returned before any bus access for an out of
	// range measuring interval.
	InvalidIntervalInput
	// InvalidFilterInput is returned before any bus access for an out of
	// range filter coefficient.
	InvalidFilterInput
)

var statusStrings = [...]string{
	Success:               "Success",
	NotAcknowledged:       "Not acknowledge error",
	ChecksumError:         "Checksum error",
	RegisterWriteMismatch: "something went wrong when changing the register",
	InvalidIntervalInput:  "error wrong input for change_co2_measuring_interval",
	InvalidFilterInput:    "error wrong input for change_co2_filter_coefficient",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusStrings) {
		return "Unknown error"
	}
	return statusStrings[s]
}

// Error implements error so a Status can be matched with errors.Is.
func (s Status) Error() string {
	return s.String()
}

// OpError is returned by every Dev operation that fails.
type OpError struct {
	// Op names the operation, usually the register name.
	Op     string
	Status Status
	// Err is the underlying cause. It wraps Status.
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ee895 %s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("ee895 %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// StatusOf extracts the Status from err. nil maps to Success. Errors that
// carry no Status are reported as NotAcknowledged.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var op *OpError
	if errors.As(err, &op) {
		return op.Status
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return NotAcknowledged
}

func opError(op string, err error) error {
	return &OpError{Op: op, Status: StatusOf(err), Err: err}
}
