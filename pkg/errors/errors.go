package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeInvalidTitle      Code = "INVALID_TITLE"
	CodeInvalidPrice      Code = "INVALID_PRICE"
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeInvalidQuantity   Code = "INVALID_QUANTITY"
	CodeInvalidProduct    Code = "INVALID_PRODUCT"
	CodeInvalidDependency Code = "INVALID_DEPENDENCY"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeDependency        Code = "DEPENDENCY_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
)

type Metadata struct {
	ExitCode      int
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeInvalidTitle: {
		ExitCode:      2,
		PublicMessage: "title is invalid",
	},
	CodeInvalidPrice: {
		ExitCode:      2,
		PublicMessage: "price is invalid",
	},
	CodeInvalidAmount: {
		ExitCode:      2,
		PublicMessage: "amount is invalid",
	},
	CodeInvalidQuantity: {
		ExitCode:      2,
		PublicMessage: "quantity is invalid",
	},
	CodeInvalidProduct: {
		ExitCode:      2,
		PublicMessage: "product is invalid",
	},
	CodeInvalidDependency: {
		ExitCode:      3,
		PublicMessage: "dependency is invalid",
	},
	CodeValidation: {
		ExitCode:      2,
		PublicMessage: "validation failed",
	},
	CodeNotFound: {
		ExitCode:      4,
		PublicMessage: "resource not found",
	},
	CodeDependency: {
		ExitCode:      5,
		Retryable:     true,
		PublicMessage: "dependency unavailable",
	},
	CodeInternal: {
		ExitCode:      1,
		Retryable:     true,
		PublicMessage: "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Retryable() bool {
	return MetadataFor(e.Code()).Retryable
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries a typed Error with the given code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// IsRetryable reports whether err is worth another attempt. Untyped errors are
// treated as transport failures and retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if typed := As(err); typed != nil {
		return typed.Retryable()
	}
	return true
}
