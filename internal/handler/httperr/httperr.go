// Package httperr carries the error envelope the error-handling
// middleware renders for public gin errors.
package httperr

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}
