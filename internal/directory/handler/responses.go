package handler

import (
	"userdir/internal/directory/filter"
	"userdir/internal/directory/models"
)

// UserResponse is the JSON form of a user record.
type UserResponse struct {
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	DateOfBirth string `json:"date_of_birth"`
	Picture     string `json:"picture,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// ListUsersResponse carries the visible records. Total is the number of loaded records
// before filtering.
type ListUsersResponse struct {
	Status string         `json:"status"`
	Total  int            `json:"total"`
	Count  int            `json:"count"`
	Users  []UserResponse `json:"users"`
}

type NationalitiesResponse struct {
	Nationalities []string `json:"nationalities"`
}

type StatusResponse struct {
	Status        string  `json:"status"`
	LoadedAt      *string `json:"loaded_at,omitempty"`
	RecordCount   int     `json:"record_count"`
	LoadError     string  `json:"load_error,omitempty"`
	LoadErrorCode string  `json:"load_error_code,omitempty"`
}

func toUserResponses(records []models.UserRecord) []UserResponse {
	out := make([]UserResponse, 0, len(records))
	for _, r := range records {
		out = append(out, UserResponse{
			FullName:    r.FullName,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Email:       r.Email,
			Nationality: r.Nationality,
			DateOfBirth: r.DateOfBirth.UTC().Format(filter.DateLayout),
			Picture:     r.PictureURL,
			Thumbnail:   r.ThumbnailURL,
		})
	}
	return out
}
