//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package mmerr defines the error taxonomy every port operation returns.
// Every core-recognised failure mode is a Code, not a bare string, so
// callers can switch on it instead of matching error text.
package mmerr

import "github.com/pkg/errors"

// Code identifies a class of port-core failure.
type Code int

const (
	// EINVAL means arguments were malformed, the port was in the wrong
	// state (e.g. already enabled), or two ports were the wrong type
	// combination for the requested operation.
	EINVAL Code = iota
	// ENOSYS means the operation is not implemented by the module (or,
	// for a parameter, not recognised by the core either).
	ENOSYS
	// EFAULT means the client overwrote the port's format pointer.
	EFAULT
	// EISCONN means the port is already connected.
	EISCONN
	// ENOTCONN means the port is not connected.
	ENOTCONN
	// ENOMEM means a pool was exhausted or an allocation failed.
	ENOMEM
	// ENOSPC means an event pool was exhausted or an event buffer was
	// too small to hold its payload.
	ENOSPC
)

func (c Code) String() string {
	switch c {
	case EINVAL:
		return "EINVAL"
	case ENOSYS:
		return "ENOSYS"
	case EFAULT:
		return "EFAULT"
	case EISCONN:
		return "EISCONN"
	case ENOTCONN:
		return "ENOTCONN"
	case ENOMEM:
		return "ENOMEM"
	case ENOSPC:
		return "ENOSPC"
	}
	return "unknown"
}

// Error is the error type returned by every exported port operation.
type Error struct {
	Code Code
	msg  string
	// cause is the wrapped lower-level error, if any (e.g. the error
	// returned by a module handler).
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Code.String() + ": " + e.msg + ": " + e.cause.Error()
	}
	return e.Code.String() + ": " + e.msg
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an *Error with no wrapped cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, msg: errors.Errorf(format, args...).Error()}
}

// Wrap builds an *Error that carries cause as context. If cause is
// already an *Error with the same code, it is returned unchanged so
// wrapping chains don't pile up redundant layers.
func Wrap(code Code, cause error, msg string) *Error {
	if cause == nil {
		return New(code, msg)
	}
	if existing, ok := cause.(*Error); ok && existing.Code == code {
		return existing
	}
	return &Error{Code: code, msg: msg, cause: errors.WithStack(cause)}
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
