// Copyright 2025 LunaBeam Team
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

package claim

import (
	"errors"
	"fmt"
)

// Code classifies every error the claim service returns.
type Code string

const (
	CodeValidation        Code = "ValidationError"
	CodeNotFound          Code = "NotFound"
	CodeExpired           Code = "Expired"
	CodeAlreadyUsed       Code = "AlreadyUsed"
	CodeRevoked           Code = "Revoked"
	CodeInvalidClaim      Code = "InvalidClaim"
	CodeCredentialPolicy  Code = "CredentialPolicyError"
	CodeDuplicateIdentity Code = "DuplicateIdentityError"
	CodePersistence       Code = "PersistenceError"
	CodeDelivery          Code = "DeliveryError"
	CodeForbidden         Code = "Forbidden"

	// Reasons only carried by an InvalidClaim error.
	CodePasscodeMismatch Code = "PasscodeMismatch"
	CodeTooManyAttempts  Code = "TooManyAttempts"
)

// Error is the single error type of the claim service. Reason narrows an
// InvalidClaim error down to the check that failed.
type Error struct {
	Code    Code
	Reason  Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Reason != "" {
		msg += "(" + string(e.Reason) + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code. A target code also matches an InvalidClaim error
// carrying it as reason, so errors.Is(err, ErrAlreadyUsed) holds for a
// finalization that lost the race.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason != "" {
		return t.Code == e.Code && t.Reason == e.Reason
	}
	return t.Code == e.Code || (e.Code == CodeInvalidClaim && t.Code == e.Reason)
}

var (
	ErrValidation        = &Error{Code: CodeValidation}
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrExpired           = &Error{Code: CodeExpired}
	ErrAlreadyUsed       = &Error{Code: CodeAlreadyUsed}
	ErrRevoked           = &Error{Code: CodeRevoked}
	ErrInvalidClaim      = &Error{Code: CodeInvalidClaim}
	ErrPasscodeMismatch  = &Error{Code: CodeInvalidClaim, Reason: CodePasscodeMismatch}
	ErrTooManyAttempts   = &Error{Code: CodeInvalidClaim, Reason: CodeTooManyAttempts}
	ErrCredentialPolicy  = &Error{Code: CodeCredentialPolicy}
	ErrDuplicateIdentity = &Error{Code: CodeDuplicateIdentity}
	ErrPersistence       = &Error{Code: CodePersistence}
	ErrDelivery          = &Error{Code: CodeDelivery}
	ErrForbidden         = &Error{Code: CodeForbidden}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// invalid turns a lookup result into the InvalidClaim error finalization reports.
func invalid(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) && ce.Code != CodePersistence {
		if ce.Code == CodeInvalidClaim {
			return ce
		}
		return &Error{Code: CodeInvalidClaim, Reason: ce.Code, Message: ce.Message}
	}
	return persistence(err)
}

// persistence wraps an infrastructure failure unless it already carries a code.
func persistence(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Code: CodePersistence, Cause: err}
}

// CodeOf returns the code of err, or "" when err is not a claim error.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// ReasonOf returns the reason of an InvalidClaim error.
func ReasonOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}
