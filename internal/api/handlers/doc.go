// Package handlers implements HTTP handlers for the notice-tracker API.
package handlers

// StatusResponse is the response body shared by the probe endpoints.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
