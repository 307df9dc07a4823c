package domain

import (
	"errors"
	"fmt"
)

var (
	MessageNoConnectivity       = "No Internet Connectivity. Please try again!!!"
	MessageBlankCredentials     = "Username and Password cannot be blank"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageInvalidCredentials   = "Unable to log in with provided credentials."

	ErrNoConnectivity       = errors.New("no internet connectivity")
	ErrUnauthenticated      = errors.New("not logged in")
	ErrServerUnavailable    = errors.New("server unavailable, check the connection and try again")
	ErrBlankCredentials     = errors.New("username and password cannot be blank")
	ErrNoRestaurantSelected = errors.New("no restaurant selected")
	ErrTokenNotFound        = errors.New("failed to token not found")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrTokenExpired         = errors.New("token expired")
	ErrUserNotAllowed       = errors.New("user not allowed")
)

// AuthError carries the message the server returned with a 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// HTTPError is any non-2xx response. Body is kept for diagnostics.
type HTTPError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// MalformedResponseError is a 2xx response whose body could not be decoded
// or did not carry the required fields.
type MalformedResponseError struct {
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v: %s", e.Err, e.Body)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IOError is a file system or image codec failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
