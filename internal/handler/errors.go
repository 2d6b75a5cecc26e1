package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/service"
)

// Error codes returned in the "code" field of every error body.
const (
	CodeNotFound          = "not_found"
	CodeValidation        = "validation_error"
	CodeInvalidTransition = "invalid_transition"
	CodeInternal          = "internal_error"
)

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// statusOf maps a service error to its HTTP status and code.
func statusOf(err error) (int, string) {
	switch {
	case service.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	case service.IsValidation(err):
		return http.StatusBadRequest, CodeValidation
	case service.IsInvalidTransition(err):
		return http.StatusConflict, CodeInvalidTransition
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// RespondError writes err as a JSON error body.  Internal errors hide their
// message from the client.
func RespondError(c echo.Context, err error) error {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.JSON(status, errorBody{Error: msg, Code: code, RequestID: requestID(c)})
}

// ErrorHandler replaces echo's default so router errors (unknown route,
// wrong method) and anything a handler returns share the same body shape.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code := CodeInternal
			switch he.Code {
			case http.StatusNotFound:
				code = CodeNotFound
			case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnsupportedMediaType:
				code = CodeValidation
			}
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
			_ = c.JSON(he.Code, errorBody{Error: msg, Code: code, RequestID: requestID(c)})
			return
		}
		if status, _ := statusOf(err); status == http.StatusInternalServerError {
			log.Error("unhandled error", zap.String("route", c.Path()), zap.Error(err))
		}
		_ = RespondError(c, err)
	}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// bind decodes the request body into v, reporting malformed JSON as a
// validation failure.
func bind(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return service.ValidationError{Msg: "invalid request body"}
	}
	return nil
}
