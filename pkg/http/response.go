package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data as the bare response body.
func JSONResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return JSONResponse(c, http.StatusOK, data)
}

// ErrorResponse writes {"error": message}.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return JSONResponse(c, statusCode, ErrorBody{Error: message})
}

// ValidationErrorResponse writes a 400 with field details.
func ValidationErrorResponse(c echo.Context, details []ValidationError) error {
	return JSONResponse(c, http.StatusBadRequest, ErrorBody{
		Error:   "invalid request",
		Details: details,
	})
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message)
	}
	return InternalServerErrorResponse(c)
}
