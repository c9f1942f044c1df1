// Package errno defines the error envelope returned by the HTTP API.
package errno

// Errno is the response envelope: a code, a message and optional payload.
type Errno struct {
	Code     int         `json:"code"`
	ErrorMsg string      `json:"errorMsg"`
	Data     interface{} `json:"data,omitempty"`
}

// WithData returns a copy carrying the given payload.
func (e Errno) WithData(data interface{}) Errno {
	e.Data = data
	return e
}

var (
	OK = Errno{Code: 0, ErrorMsg: "ok"}

	ErrInvalidParam  = Errno{Code: 1001, ErrorMsg: "invalid parameter"}
	ErrNotAuthorized = Errno{Code: 1002, ErrorMsg: "not authorized"}
	ErrAuthTokenErr  = Errno{Code: 1003, ErrorMsg: "invalid auth token"}
	ErrAuthTimeout   = Errno{Code: 1004, ErrorMsg: "auth token expired"}

	ErrFetchFailed  = Errno{Code: 2001, ErrorMsg: "failed to fetch remote document"}
	ErrConvertError = Errno{Code: 2002, ErrorMsg: "failed to convert document"}

	ErrSystemError = Errno{Code: 5000, ErrorMsg: "system error"}
)
