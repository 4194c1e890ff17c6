package converter

import (
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Location is included when it was loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	providers := []string(user.InsuranceProviders)
	if providers == nil {
		providers = []string{}
	}

	return &dto.UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role,
		InsuranceProviders: providers,
		Location:           LocationToResponse(user.Location),
		CreatedAt:          user.CreatedAt,
	}
}
