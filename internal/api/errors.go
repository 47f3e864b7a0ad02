package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/apperr"
)

// Reply is the status and JSON body written for a failed request
type Reply struct {
	Status int
	Body   gin.H
}

// ErrorHandler classifies err, returning false when it does not recognize it
type ErrorHandler func(err error) (Reply, bool)

// DefaultErrorHandlers is the classification order used by ErrorMiddleware
var DefaultErrorHandlers = []ErrorHandler{
	StoreErrorHandler,
	ApplicationErrorHandler,
	FallbackHandler,
}

// StoreErrorHandler maps the SQLSTATE codes of rejected input to 400 and a
// broken reference to 404. Only the first line of the store message is shown.
func StoreErrorHandler(err error) (Reply, bool) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return Reply{}, false
	}
	var storeErr *apperr.StoreError
	if !errors.As(err, &storeErr) {
		return Reply{}, false
	}

	switch storeErr.Code {
	case apperr.CodeInvalidTextRepresentation, apperr.CodeNumericValueOutOfRange, apperr.CodeNotNullViolation:
		return Reply{
			Status: http.StatusBadRequest,
			Body:   gin.H{"msg": "Bad request", "error": storeErr.FirstLine()},
		}, true
	case apperr.CodeForeignKeyViolation:
		return Reply{
			Status: http.StatusNotFound,
			Body:   gin.H{"msg": "Not found", "error": storeErr.FirstLine()},
		}, true
	}
	return Reply{}, false
}

// ApplicationErrorHandler replies with the status and message of a
// deliberately raised apperr.Error.
func ApplicationErrorHandler(err error) (Reply, bool) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return Reply{}, false
	}
	return Reply{Status: appErr.Status, Body: gin.H{"msg": appErr.Msg}}, true
}

// FallbackHandler hides anything unrecognized behind a 500
func FallbackHandler(error) (Reply, bool) {
	return Reply{
		Status: http.StatusInternalServerError,
		Body:   gin.H{"msg": "Internal Server Error"},
	}, true
}

// Classify runs err through handlers and returns the first reply produced
func Classify(err error, handlers ...ErrorHandler) Reply {
	for _, h := range handlers {
		if reply, ok := h(err); ok {
			return reply
		}
	}
	reply, _ := FallbackHandler(err)
	return reply
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
// Handlers never write error bodies themselves.
func ErrorMiddleware(handlers ...ErrorHandler) gin.HandlerFunc {
	if len(handlers) == 0 {
		handlers = DefaultErrorHandlers
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		reply := Classify(err, handlers...)

		if reply.Status >= http.StatusInternalServerError {
			LoggerFrom(c).Error().Err(err).Int("status", reply.Status).Msg("Request failed")
		}
		c.AbortWithStatusJSON(reply.Status, reply.Body)
	}
}
