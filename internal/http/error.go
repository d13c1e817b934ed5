package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/appclacks/slo-dashboard/internal/http/handlers"
	"github.com/appclacks/slo-dashboard/pkg/slo"
	"github.com/labstack/echo/v4"
	er "github.com/mcorbin/corbierror"
)

func writeJSON(logger *slog.Logger, c echo.Context, status int, body any) {
	if err := c.JSON(status, body); err != nil {
		logger.Error(err.Error())
	}
}

func errorHandler(logger *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		// can happen of ctx.Error() is called in a middleware
		// with nil passed, like for the rate limiter
		if err != nil {
			errLoggedMsg := err.Error() + " on " + c.Request().Method + " " + c.Request().URL.Path
			var validationFailure *slo.ValidationFailure
			if errors.As(err, &validationFailure) {
				logger.Info(errLoggedMsg)
				writeJSON(logger, c, http.StatusBadRequest, handlers.ValidationOutput{
					Messages: validationFailure.Errors.Messages(),
					Errors:   validationFailure.Errors,
				})
				return
			}
			var submitFailure *slo.SubmitFailure
			if errors.As(err, &submitFailure) {
				var cause *er.Error
				if !errors.As(submitFailure.Cause, &cause) {
					logger.Error(errLoggedMsg)
					submitErrors := submitFailure.Errors()
					writeJSON(logger, c, http.StatusInternalServerError, handlers.ValidationOutput{
						Messages: submitErrors.Messages(),
						Errors:   submitErrors,
					})
					return
				}
				err = cause
			}
			corbiError, ok := err.(*er.Error)
			if ok {
				if corbiError.Type == er.Forbidden {
					logger.Warn(errLoggedMsg)
				} else {
					logger.Error(errLoggedMsg)
				}
				finalErr, status := er.HTTPError(*corbiError)
				writeJSON(logger, c, status, finalErr)
				return
			} else {
				logger.Error(errLoggedMsg)
			}
			echoError, ok := err.(*echo.HTTPError)
			if ok {
				internal := echoError.Internal
				if internal != nil {
					jsonError, ok := internal.(*json.UnmarshalTypeError)
					if ok {
						msg := fmt.Sprintf("invalid JSON payload, field %s is incorrect", jsonError.Field)
						writeJSON(logger, c, http.StatusBadRequest, er.Error{
							Messages: []string{msg},
						})
						return
					}
				}
				if echoError.Code == http.StatusBadRequest && strings.Contains(echoError.Error(), "Field validation") {
					msg := strings.Split(fmt.Sprintf("%+v", echoError.Message), "\n")
					writeJSON(logger, c, http.StatusBadRequest, er.Error{
						Messages: msg,
					})
					return
				}
				if echoError.Code == http.StatusMethodNotAllowed {
					writeJSON(logger, c, http.StatusMethodNotAllowed, er.Error{
						Messages: []string{"method not allowed"},
					})
					return
				}
				if echoError.Code == http.StatusNotFound {
					writeJSON(logger, c, http.StatusNotFound, er.Error{
						Messages: []string{"not found"},
					})
					return
				}
				if echoError.Code < http.StatusInternalServerError {
					writeJSON(logger, c, echoError.Code, er.Error{
						Messages: []string{fmt.Sprintf("%v", echoError.Message)},
					})
					return
				}
			}
			writeJSON(logger, c, http.StatusInternalServerError, er.Error{
				Messages: []string{"internal server error"},
			})
		}
	}
}
