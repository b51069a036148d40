package annotations

import (
	"errors"
	"fmt"
)

// ErrorKind is the outcome category of a parse.
type ErrorKind int

const (
	// KindSuccess means the document decoded without error.
	KindSuccess ErrorKind = iota
	// KindFileNotFound means the annotation file does not exist.
	KindFileNotFound
	// KindCannotReadFile means the file exists but could not be opened or read.
	KindCannotReadFile
	// KindInvalidXML means the markup itself is malformed.
	KindInvalidXML
	// KindInvalidFormat means well-formed XML that breaks the annotation schema.
	KindInvalidFormat
)

var kindNames = [...]string{
	KindSuccess:        "success",
	KindFileNotFound:   "file_not_found",
	KindCannotReadFile: "cannot_read_file",
	KindInvalidXML:     "invalid_xml",
	KindInvalidFormat:  "invalid_format",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Kinds lists every ErrorKind, success first.
func Kinds() []ErrorKind {
	return []ErrorKind{KindSuccess, KindFileNotFound, KindCannotReadFile, KindInvalidXML, KindInvalidFormat}
}

// ParseError is returned for every failed parse. Message is a human-readable
// diagnostic naming the offending element, attribute or value.
type ParseError struct {
	Kind    ErrorKind
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from an error returned by this package.
// A nil error is KindSuccess; foreign errors are reported as KindCannotReadFile.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindSuccess
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindCannotReadFile
}

func formatErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: KindInvalidFormat, Message: fmt.Sprintf(format, args...)}
}
