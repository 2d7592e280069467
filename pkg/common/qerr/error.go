// Copyright 2022 Corvus DB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qerr

import (
	"fmt"
)

const (
	// Ok is not an error.
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102

	// Group 2: numeric and expression evaluation
	ErrDivByZero    uint16 = 20200
	ErrOutOfRange   uint16 = 20201
	ErrTypeMismatch uint16 = 20202
	ErrInvalidArg   uint16 = 20203

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301

	// Group 4: unexpected state
	ErrInvalidState     uint16 = 20400
	ErrColumnOutOfRange uint16 = 20401

	ErrEnd uint16 = 65535
)

type errorMsgItem struct {
	name   string
	format string
}

var errorMsgRegistry = map[uint16]errorMsgItem{
	ErrInternal:         {"internal", "internal error: %s"},
	ErrNYI:              {"NYI", "%s is not yet implemented"},
	ErrDivByZero:        {"div_by_zero", "division by zero"},
	ErrOutOfRange:       {"out_of_range", "data out of range: data type %s, %s"},
	ErrTypeMismatch:     {"type_mismatch", "type mismatch: %s"},
	ErrInvalidArg:       {"invalid_argument", "invalid argument %s, bad value %s"},
	ErrBadConfig:        {"bad_configuration", "invalid configuration: %s"},
	ErrInvalidInput:     {"invalid_input", "invalid input: %s"},
	ErrInvalidState:     {"invalid_state", "invalid state %s"},
	ErrColumnOutOfRange: {"column_out_of_range", "column index %d out of range [0, %d)"},
}

// Error is the only error type the engine core produces. It carries a
// numeric code so callers can dispatch on the failure class without
// string matching.
type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Is(err error) bool {
	t, ok := err.(*Error)
	if !ok {
		return false
	}
	return t.code == e.code
}

func newError(code uint16, args ...any) *Error {
	var err *Error
	item, has := errorMsgRegistry[code]
	if !has {
		panic(fmt.Errorf("not registered error code %d", code))
	}
	if len(args) == 0 {
		err = &Error{code: code, message: item.format}
	} else {
		err = &Error{code: code, message: fmt.Sprintf(item.format, args...)}
	}
	return err
}

// IsErrCode reports whether err is a qerr.Error carrying the given code.
func IsErrCode(err error, code uint16) bool {
	if err == nil {
		return code == Ok
	}
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.code == code
}

func NewInternal(msg string, args ...any) *Error {
	return newError(ErrInternal, fmt.Sprintf(msg, args...))
}

func NewNYI(msg string, args ...any) *Error {
	return newError(ErrNYI, fmt.Sprintf(msg, args...))
}

func NewDivByZero() *Error {
	return newError(ErrDivByZero)
}

func NewOutOfRange(typ string, msg string, args ...any) *Error {
	return newError(ErrOutOfRange, typ, fmt.Sprintf(msg, args...))
}

func NewTypeMismatch(msg string, args ...any) *Error {
	return newError(ErrTypeMismatch, fmt.Sprintf(msg, args...))
}

func NewInvalidArg(arg string, val any) *Error {
	return newError(ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewBadConfig(msg string, args ...any) *Error {
	return newError(ErrBadConfig, fmt.Sprintf(msg, args...))
}

func NewInvalidInput(msg string, args ...any) *Error {
	return newError(ErrInvalidInput, fmt.Sprintf(msg, args...))
}

func NewInvalidState(msg string, args ...any) *Error {
	return newError(ErrInvalidState, fmt.Sprintf(msg, args...))
}

func NewColumnOutOfRange(idx int, width int) *Error {
	return newError(ErrColumnOutOfRange, idx, width)
}
