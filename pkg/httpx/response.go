package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the value the router produces for every dispatch.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{
		Status: status,
		Header: make(http.Header),
	}
}

// JSON builds a JSON response. A value that cannot be marshaled yields
// a 500 text response instead of a half-written body.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Text(http.StatusInternalServerError,
			fmt.Sprintf("encode response: %v", err))
	}
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp.Body = body
	return resp
}

// HTML builds an HTML response.
func HTML(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.Body = []byte(body)
	return resp
}

// Text builds a plain-text response.
func Text(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Body = []byte(body)
	return resp
}

// Redirect builds a redirect response. Status should be a 3xx code;
// 302 is used when status is out of range.
func Redirect(status int, location string) *Response {
	if status < 300 || status > 399 {
		status = http.StatusFound
	}
	resp := NewResponse(status)
	resp.Header.Set("Location", location)
	return resp
}

// NoContent builds an empty 204 response.
func NoContent() *Response {
	return NewResponse(http.StatusNoContent)
}

// WithStatus returns the response with the status replaced.
func (r *Response) WithStatus(status int) *Response {
	r.Status = status
	return r
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// Write sends the response over an http.ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) == 0 {
		return nil
	}
	if _, err := w.Write(r.Body); err != nil {
		return fmt.Errorf("httpx: write response: %w", err)
	}
	return nil
}
