// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package disk

import "fmt"

// ErrorKind classifies the failure modes a caller may want to branch on.
// The CLI does not map kinds to distinct exit codes: any command error
// exits with status 1.
type ErrorKind int

const (
	ErrNotEnoughData ErrorKind = iota
	ErrInvalidImage
	ErrInvalidGeometry
	ErrUnsupportedFs
	ErrRecoverFailed
	ErrPartialRecovery
	ErrIoError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotEnoughData:
		return "not enough data"
	case ErrInvalidImage:
		return "invalid image"
	case ErrInvalidGeometry:
		return "invalid geometry"
	case ErrUnsupportedFs:
		return "unsupported filesystem"
	case ErrRecoverFailed:
		return "recovery failed"
	case ErrPartialRecovery:
		return "partial recovery"
	case ErrIoError:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// Error is the error type every exported disk/recovery operation returns on
// failure, carrying enough context to pick an exit code without string
// matching.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
