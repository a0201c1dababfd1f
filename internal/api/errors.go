package api

import (
	"errors"
	"net/http"

	"trends-gateway/internal/domain"
)

// httpStatusFromError maps domain errors to HTTP status codes. Bad caller
// input is the caller's fault; upstream rejections are a bad gateway;
// everything else is an internal error.
func httpStatusFromError(err error) int {
	var rangeErr *domain.RangeError
	var validation *domain.ValidationError
	var upstream *domain.UpstreamError

	switch {
	case errors.As(err, &rangeErr), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
