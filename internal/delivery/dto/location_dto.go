package dto

// LocationRequest replaces the address and coordinates of a location
type LocationRequest struct {
	Country   string   `json:"country" validate:"omitempty,max=100"`
	Province  string   `json:"province" validate:"omitempty,max=100"`
	District  string   `json:"district" validate:"omitempty,max=100"`
	Sector    string   `json:"sector" validate:"omitempty,max=100"`
	Village   string   `json:"village" validate:"omitempty,max=100"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type CoordinateResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocationResponse struct {
	ID         int64              `json:"id"`
	UserID     *int64             `json:"user_id,omitempty"`
	PharmacyID *int64             `json:"pharmacy_id,omitempty"`
	Country    string             `json:"country"`
	Province   string             `json:"province"`
	District   string             `json:"district"`
	Sector     string             `json:"sector"`
	Village    string             `json:"village"`
	Coordinate CoordinateResponse `json:"coordinate"`
}
