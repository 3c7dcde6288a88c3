// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xlog adapts the teacher's InitLogFile/LogErr/LogErrCond trio
// (inp/logging.go) to a single-process core: no MPI rank suffix, and
// library code never calls os.Exit — it only logs and returns an error
// for the caller (ultimately cmd/softfem) to act on.
package xlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetOutput redirects the package logger, e.g. to a frame-dump log file.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Infof logs an informational message.
func Infof(format string, args ...interface{}) { std.Printf("INFO  "+format, args...) }

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) { std.Printf("WARN  "+format, args...) }

// Err logs err (if non-nil, prefixed with msg) and returns it unchanged,
// mirroring the teacher's LogErr(err, msg) (stop bool) but returning the
// error itself so callers keep normal Go error-propagation.
func Err(err error, msg string) error {
	if err == nil {
		return nil
	}
	std.Printf("ERROR %s: %v", msg, err)
	return err
}

// ErrCond is the condition-based counterpart to Err, mirroring LogErrCond.
func ErrCond(cond bool, format string, args ...interface{}) error {
	if !cond {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	std.Printf("ERROR %s", msg)
	return fmt.Errorf("%s", msg)
}
