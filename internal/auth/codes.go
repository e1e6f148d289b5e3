// Package auth implements the account screens' backend: an identity
// provider port, validation, and the fixed error-code translation table.
package auth

import "errors"

// Code is a provider-defined error code. The set below is the fixed
// table the app knows how to translate; anything else gets the generic
// retry message.
type Code string

const (
	CodeEmailAlreadyInUse    Code = "auth/email-already-in-use"
	CodeInvalidEmail         Code = "auth/invalid-email"
	CodeOperationNotAllowed  Code = "auth/operation-not-allowed"
	CodeWeakPassword         Code = "auth/weak-password"
	CodeUserDisabled         Code = "auth/user-disabled"
	CodeUserNotFound         Code = "auth/user-not-found"
	CodeWrongPassword        Code = "auth/wrong-password"
	CodeInvalidCredential    Code = "auth/invalid-credential"
	CodeTooManyRequests      Code = "auth/too-many-requests"
	CodeNetworkRequestFailed Code = "auth/network-request-failed"
)

// GenericMessage is shown for codes outside the known table.
const GenericMessage = "An error occurred. Please try again"

var messages = map[Code]string{
	CodeEmailAlreadyInUse:    "This email is already registered",
	CodeInvalidEmail:         "Invalid email address",
	CodeOperationNotAllowed:  "Operation not allowed",
	CodeWeakPassword:         "Password should be at least 6 characters",
	CodeUserDisabled:         "This account has been disabled",
	CodeUserNotFound:         "No account found with this email",
	CodeWrongPassword:        "Incorrect password",
	CodeInvalidCredential:    "Invalid email or password",
	CodeTooManyRequests:      "Too many attempts. Please try again later",
	CodeNetworkRequestFailed: "Network error. Check your connection",
}

// Message returns the user-facing text for a code.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return GenericMessage
}

// Error is a provider failure carrying its code.
type Error struct {
	Code Code
}

// Error implements the error interface; the raw code is for logs, not
// for users.
func (e *Error) Error() string {
	return string(e.Code)
}

// UserMessage translates any error into the string shown to the user.
// Provider errors go through the code table; everything else gets the
// generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code.Message()
	}
	return GenericMessage
}
