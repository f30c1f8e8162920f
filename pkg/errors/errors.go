package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// CodeTransport covers network or HTTP failures reaching the vendor API.
	CodeTransport Code = "TRANSPORT_ERROR"
	// CodeAuth marks a rejected vendor credential.
	CodeAuth Code = "AUTH_ERROR"
	// CodeTimeout marks a page request exceeding its bound.
	CodeTimeout Code = "TIMEOUT_ERROR"
	// CodeMapping marks a structurally malformed vendor record. Mapping defects
	// are dropped and logged; they never abort a run.
	CodeMapping Code = "MAPPING_DEFECT"
	// CodeStorage covers persistence failures for a record or a watermark write.
	CodeStorage Code = "STORAGE_ERROR"

	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeInternal   Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeTransport: {
		Retryable:     true,
		PublicMessage: "vendor api unreachable",
	},
	CodeAuth: {
		Retryable:     false,
		PublicMessage: "vendor credential rejected",
	},
	CodeTimeout: {
		Retryable:     true,
		PublicMessage: "vendor api request timed out",
	},
	CodeMapping: {
		Retryable:     false,
		PublicMessage: "vendor record malformed",
	},
	CodeStorage: {
		Retryable:     true,
		PublicMessage: "persistence failed",
	},
	CodeValidation: {
		Retryable:     false,
		PublicMessage: "validation failed",
	},
	CodeNotFound: {
		Retryable:     false,
		PublicMessage: "resource not found",
	},
	CodeInternal: {
		Retryable:     false,
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

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// CodeOf extracts the Code from any error in the chain, defaulting to internal.
func CodeOf(err error) Code {
	var coded *Error
	if stdErrors.As(err, &coded) {
		return coded.Code()
	}
	return CodeInternal
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if stdErrors.As(err, &coded) {
		return coded.Code() == code
	}
	return false
}

// IsRetryable reports whether re-running the failed operation may succeed.
func IsRetryable(err error) bool {
	return MetadataFor(CodeOf(err)).Retryable
}
