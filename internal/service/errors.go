package service

import (
	"errors"
	"net/http"

	"connectrpc.com/connect"
	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/model"
)

var errInternal = errors.New("internal error")

// errorCode maps a domain error onto an RPC code
func errorCode(err error) connect.Code {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return connect.CodeUnauthenticated
	case errors.Is(err, model.ErrForbidden):
		return connect.CodePermissionDenied
	case errors.Is(err, model.ErrValidation):
		return connect.CodeInvalidArgument
	case errors.Is(err, model.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, model.ErrConflict):
		return connect.CodeAborted
	case errors.Is(err, model.ErrUpstream):
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

// toConnectError translates err once at the RPC boundary. Internal failures are logged and
// answered without detail.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := errorCode(err)
	if code == connect.CodeInternal {
		log.WithError(err).Error("request failed")
		return connect.NewError(code, errInternal)
	}
	if code == connect.CodeUnavailable {
		log.WithError(err).Warn("upstream provider failed")
	}

	return connect.NewError(code, err)
}

// StatusCode maps a domain error onto an HTTP status for plain HTTP routes
func StatusCode(err error) int {
	switch errorCode(err) {
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeAborted:
		return http.StatusConflict
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
