package converter

import (
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
)

func LocationToResponse(location *entity.Location) *dto.LocationResponse {
	if location == nil {
		return nil
	}

	return &dto.LocationResponse{
		ID:         location.ID,
		UserID:     location.UserID,
		PharmacyID: location.PharmacyID,
		Country:    location.Country,
		Province:   location.Province,
		District:   location.District,
		Sector:     location.Sector,
		Village:    location.Village,
		Coordinate: dto.CoordinateResponse{
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
		},
	}
}

func LocationsToResponses(locations []entity.Location) []dto.LocationResponse {
	responses := make([]dto.LocationResponse, len(locations))
	for i := range locations {
		responses[i] = *LocationToResponse(&locations[i])
	}
	return responses
}

// ApplyLocationRequest copies req onto location. Empty address parts keep their stored value.
func ApplyLocationRequest(location *entity.Location, req *dto.LocationRequest) {
	if req.Country != "" {
		location.Country = req.Country
	}
	if req.Province != "" {
		location.Province = req.Province
	}
	if req.District != "" {
		location.District = req.District
	}
	if req.Sector != "" {
		location.Sector = req.Sector
	}
	if req.Village != "" {
		location.Village = req.Village
	}
	if req.Latitude != nil {
		location.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		location.Longitude = *req.Longitude
	}
}
