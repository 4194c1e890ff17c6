package converter

import (
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
)

func PharmacyToResponse(pharmacy *entity.Pharmacy) *dto.PharmacyResponse {
	if pharmacy == nil {
		return nil
	}

	accepted := []string(pharmacy.InsuranceAccepted)
	if accepted == nil {
		accepted = []string{}
	}

	return &dto.PharmacyResponse{
		ID:                pharmacy.ID,
		Name:              pharmacy.Name,
		Email:             pharmacy.Email,
		Phone:             pharmacy.Phone,
		Address:           pharmacy.Address,
		InsuranceAccepted: accepted,
		IsActive:          pharmacy.IsActive == nil || *pharmacy.IsActive,
		Location:          LocationToResponse(pharmacy.Location),
		CreatedAt:         pharmacy.CreatedAt,
		UpdatedAt:         pharmacy.UpdatedAt,
	}
}

func PharmaciesToResponses(pharmacies []entity.Pharmacy) []dto.PharmacyResponse {
	responses := make([]dto.PharmacyResponse, len(pharmacies))
	for i := range pharmacies {
		responses[i] = *PharmacyToResponse(&pharmacies[i])
	}
	return responses
}
