// Package handlers implements the HTTP handlers of the perses-gateway API.
package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/perses-gateway/internal/perses"
)

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// upstreamError maps a failed Perses call to an HTTP error. Missing
// resources become 404, everything else 502.
func upstreamError(what string, err error) error {
	if errors.Is(err, perses.ErrNotFound) {
		return huma.Error404NotFound(what + " not found")
	}
	return huma.Error502BadGateway(what+" lookup failed", err)
}
