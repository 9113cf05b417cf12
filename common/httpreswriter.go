package common

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

type (
	// HttpResponseWriter used for middleware api functions.
	//
	// Use a string builder, so we can send back a valid error response
	// even if an error occurred after the first write
	//
	// - Uppercase fields are for the the functions handlers functions
	//
	// - Lowercase for the middleware (~private)
	HttpResponseWriter struct {
		URL         *url.URL
		VARS        map[string]string
		TraceID     string
		Header      http.Header
		WriteBuffer strings.Builder
		StatusCode  int
		Err         *DetailedError
		Size        int
	}
)

func (res *HttpResponseWriter) Write(v []byte) error {
	size, err := res.WriteBuffer.Write(v)
	res.Size += size
	return err
}

func (res *HttpResponseWriter) WriteString(s string) error {
	size, err := res.WriteBuffer.WriteString(s)
	res.Size += size
	return err
}

// WriteJSON marshal v as the whole response body
func (res *HttpResponseWriter) WriteJSON(statusCode int, v interface{}) error {
	jsonBody, err := json.Marshal(v)
	if err != nil {
		return res.WriteError(&DetailedError{
			Status:          http.StatusInternalServerError,
			Code:            "json_marshall_error",
			Message:         "internal server error",
			InternalMessage: err.Error(),
		})
	}
	res.WriteBuffer.Reset()
	res.Size = 0
	res.WriteHeader(statusCode)
	return res.Write(jsonBody)
}

// WriteError final writing to the response
func (res *HttpResponseWriter) WriteError(err *DetailedError) error {
	err = res.recordError(err)
	return res.writeErrorBody(err.Status, err)
}

// WriteErrorWithBody record err for the logs but reply with a custom body
func (res *HttpResponseWriter) WriteErrorWithBody(err *DetailedError, body interface{}) error {
	err = res.recordError(err)
	return res.writeErrorBody(err.Status, body)
}

func (res *HttpResponseWriter) recordError(err *DetailedError) *DetailedError {
	if err == nil {
		err = &DetailedError{
			Status:          http.StatusInternalServerError,
			Code:            "unknown_error",
			Message:         "Unknown error",
			InternalMessage: "WriteError() with nil error",
		}
	}
	// Copy: the package level errors are shared between requests
	recorded := *err
	recorded.ID = res.TraceID
	res.Err = &recorded
	return res.Err
}

func (res *HttpResponseWriter) writeErrorBody(status int, body interface{}) error {
	// Discard the previous content write, so we ends up with
	// a valid json returned to the client
	res.WriteBuffer.Reset()
	res.Size = 0

	jsonErr, _ := json.Marshal(body)
	res.WriteHeader(status)
	return res.Write(jsonErr)
}

func (res *HttpResponseWriter) WriteHeader(statusCode int) {
	res.StatusCode = statusCode
}
