// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shortenerproject/shortener/internal/model"
)

// CreateLinkRequest is the body of POST /api/v1/links. The scheme of
// OriginURL is checked by the service, not here.
type CreateLinkRequest struct {
	OriginURL string     `json:"origin_url" validate:"required,max=2048"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// UpdateLinkRequest is the body of PUT /api/v1/links/{id}. An omitted
// ExpiresAt clears the stored expiry.
type UpdateLinkRequest struct {
	OriginURL string     `json:"origin_url" validate:"required,max=2048"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// LinkResponse represents a link in API responses.
type LinkResponse struct {
	ID         string     `json:"id"`
	Alias      string     `json:"alias"`
	ShortURL   string     `json:"short_url"`
	OriginURL  string     `json:"origin_url"`
	VisitCount int64      `json:"visit_count"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LinkListResponse wraps a caller's links.
type LinkListResponse struct {
	Data []LinkResponse `json:"data"`
}

// StatsResponse carries the visit counter of an alias.
type StatsResponse struct {
	Alias      string `json:"alias"`
	VisitCount int64  `json:"visit_count"`
}

// OriginResponse answers an alias search.
type OriginResponse struct {
	Alias     string `json:"alias"`
	OriginURL string `json:"origin_url"`
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError names a request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ToLinkResponse converts a Link model to LinkResponse DTO.
func ToLinkResponse(link *model.Link, baseURL string) LinkResponse {
	return LinkResponse{
		ID:         link.ID,
		Alias:      link.Alias,
		ShortURL:   baseURL + "/" + link.Alias,
		OriginURL:  link.OriginURL,
		VisitCount: link.VisitCount,
		ExpiresAt:  link.ExpiresAt,
		CreatedAt:  link.CreatedAt,
		UpdatedAt:  link.UpdatedAt,
	}
}

// ToLinkListResponse converts links to a list response. The Data slice is
// never nil so an empty list encodes as [].
func ToLinkListResponse(links []*model.Link, baseURL string) LinkListResponse {
	data := make([]LinkResponse, len(links))
	for i, link := range links {
		data[i] = ToLinkResponse(link, baseURL)
	}
	return LinkListResponse{Data: data}
}

// ToStatsResponse converts link stats to a response.
func ToStatsResponse(stats *model.LinkStats) StatsResponse {
	return StatsResponse{Alias: stats.Alias, VisitCount: stats.VisitCount}
}
