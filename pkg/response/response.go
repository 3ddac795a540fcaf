package response

import (
	"net/http"
	"strconv"
)

var EmptyRequestBodyResponse = NewErrorResponse(
	http.StatusBadRequest,
	NewError(http.StatusBadRequest, "Empty Request Body", "Request body is empty. Please provide necessary data."),
)

var InvalidRequestBodyResponse = NewErrorResponse(
	http.StatusBadRequest,
	NewError(http.StatusBadRequest, "Invalid Request Body", "Request body is not valid JSON."),
)

var UnauthorizedResponse = NewErrorResponse(
	http.StatusUnauthorized,
	NewError(http.StatusUnauthorized, "Unauthorized", "You must be logged in to perform this action."),
)

var NotFoundResponse = NewErrorResponse(
	http.StatusNotFound,
	NewError(http.StatusNotFound, "Not Found", "The requested resource was not found."),
)

var TooManyRequestsResponse = NewErrorResponse(
	http.StatusTooManyRequests,
	NewError(http.StatusTooManyRequests, "Too Many Requests", "You have exceeded the request limit. Please try again later."),
)

var ServerErrorResponse = NewErrorResponse(
	http.StatusInternalServerError,
	NewError(http.StatusInternalServerError, "Internal Server Error", "An internal server error occurred. Please try again later."),
)

// Source points at the request field an error originates from.
type Source struct {
	Pointer string `json:"pointer"`
}

type Error struct {
	Status string  `json:"status"`
	Title  string  `json:"title"`
	Detail string  `json:"detail"`
	Source *Source `json:"source,omitempty"`
}

func NewError(statusCode int, title, detail string) Error {
	return Error{
		Status: strconv.Itoa(statusCode),
		Title:  title,
		Detail: detail,
	}
}

// ValidationError reports an invalid request field.
func ValidationError(pointer, detail string) Error {
	e := NewError(http.StatusBadRequest, "Validation Error", detail)
	e.Source = &Source{Pointer: pointer}
	return e
}

// ConflictError reports an alias that belongs to another link.
func ConflictError(alias string) Error {
	e := NewError(
		http.StatusConflict,
		"Conflict",
		"The alias '"+alias+"' is already in use. Please choose a different one.",
	)
	e.Source = &Source{Pointer: "alias"}
	return e
}

// NotFoundError reports a link id that does not exist.
func NotFoundError(id string) Error {
	return NewError(http.StatusNotFound, "Not Found", "The URL with ID '"+id+"' was not found.")
}

// ForbiddenError reports an action on a link the caller does not own.
func ForbiddenError(action string) Error {
	return NewError(http.StatusForbidden, "Forbidden", "You are not authorized to "+action+" this URL.")
}

type ErrorResponse struct {
	StatusCode int     `json:"-"`
	Errors     []Error `json:"errors"`
}

func NewErrorResponse(statusCode int, errs ...Error) ErrorResponse {
	if errs == nil {
		errs = []Error{}
	}

	return ErrorResponse{
		StatusCode: statusCode,
		Errors:     errs,
	}
}

// Resource is a single data object of type Type.
type Resource struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes any    `json:"attributes"`
}

type Response struct {
	Data any `json:"data"`
}

func SuccessResponse(data any) Response {
	return Response{Data: data}
}
