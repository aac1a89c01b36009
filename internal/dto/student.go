package dto

// UpdateProfileRequest merges profile fields into the student account. A nil
// PIN leaves the stored PIN as-is.
type UpdateProfileRequest struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Class string  `json:"class" validate:"required,max=40"`
	PIN   *string `json:"pin,omitempty"`
}

// SeedAccountsRequest creates a run of numbered student accounts.
type SeedAccountsRequest struct {
	Prefix string `json:"prefix" validate:"required,alphanum,max=20"`
	Count  int    `json:"count" validate:"required,min=1"`
	Class  string `json:"class" validate:"max=40"`
}

// SeedAccountsResponse echoes the identifiers that were created.
type SeedAccountsResponse struct {
	Created []string `json:"created"`
}

// DeleteAllRequest carries the typed confirmation phrase for destructive
// roster wipes.
type DeleteAllRequest struct {
	Confirmation string `json:"confirmation"`
}
