package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrNotConnected is returned when a request is made before StaticLogin
	ErrNotConnected = errors.New("morkato client is not connected: call StaticLogin first")
	// ErrMalformedCDNReference indicates a cdn:// reference that does not match the expected pattern
	ErrMalformedCDNReference = errors.New("malformed cdn reference")
	// ErrUnknownModel indicates the server reported a model kind the client does not know
	ErrUnknownModel = errors.New("unknown model type")
	// ErrMissingRouteParam indicates a path placeholder without a matching parameter
	ErrMissingRouteParam = errors.New("missing route parameter")
	// ErrEmptyResponse indicates a successful response without the payload the caller expects
	ErrEmptyResponse = errors.New("empty response body")
)

// ModelType identifies an entity kind reported by the server on 404 responses.
type ModelType string

const (
	ModelGuild   ModelType = "GUILD"
	ModelArt     ModelType = "ART"
	ModelAttack  ModelType = "ATTACK"
	ModelAbility ModelType = "ABILITY"
	ModelFamily  ModelType = "FAMILY"
	ModelUser    ModelType = "USER"
)

var modelTypes = map[string]ModelType{
	string(ModelGuild):   ModelGuild,
	string(ModelArt):     ModelArt,
	string(ModelAttack):  ModelAttack,
	string(ModelAbility): ModelAbility,
	string(ModelFamily):  ModelFamily,
	string(ModelUser):    ModelUser,
}

// ParseModelType resolves a server-supplied model tag. Unrecognized tags fail.
func ParseModelType(tag string) (ModelType, error) {
	model, ok := modelTypes[tag]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, tag)
	}
	return model, nil
}

// HTTPError is returned for any non-2xx response the client has no more
// specific classification for. The more specific errors unwrap to it.
type HTTPError struct {
	Response   *http.Response
	StatusCode int
	Header     http.Header
	Extra      map[string]any
	Body       string
}

func newHTTPError(resp *http.Response, extra map[string]any, body []byte) *HTTPError {
	if extra == nil {
		extra = map[string]any{}
	}
	return &HTTPError{
		Response:   resp,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Extra:      extra,
		Body:       string(body),
	}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("morkato API error: status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound checks if the error indicates a not found response
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError checks if the error indicates a 5xx response
func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= 500
}

// NotFoundError is returned on 404 for every model kind except users.
type NotFoundError struct {
	*HTTPError
	Model ModelType
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("morkato API error: %s not found", e.Model)
}

func (e *NotFoundError) Unwrap() error {
	return e.HTTPError
}

// UserNotFoundError is returned on 404 when the missing model is a user.
type UserNotFoundError struct {
	*HTTPError
}

func (e *UserNotFoundError) Error() string {
	return "morkato API error: user not found"
}

func (e *UserNotFoundError) Unwrap() error {
	return e.HTTPError
}

// ServerError is returned for 5xx responses. These are never retried.
type ServerError struct {
	*HTTPError
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("morkato server error: status %d", e.StatusCode)
}

func (e *ServerError) Unwrap() error {
	return e.HTTPError
}

// UnknownModelError is returned on a 404 whose model tag is not recognized.
type UnknownModelError struct {
	*HTTPError
	Tag string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("%v: %q (status %d)", ErrUnknownModel, e.Tag, e.StatusCode)
}

func (e *UnknownModelError) Is(target error) bool {
	return target == ErrUnknownModel
}

func (e *UnknownModelError) Unwrap() error {
	return e.HTTPError
}
