package converter

import (
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
)

// OrderToResponse converts an Order entity to OrderResponse DTO.
// Customer and pharmacy names are filled when those relations were loaded.
func OrderToResponse(order *entity.Order) *dto.OrderResponse {
	if order == nil {
		return nil
	}

	response := &dto.OrderResponse{
		ID:                order.ID,
		UserID:            order.UserID,
		PharmacyID:        order.PharmacyID,
		DeliveryFee:       order.DeliveryFee,
		PrescriptionFile:  order.PrescriptionFile,
		InsuranceProvider: order.InsuranceProvider,
		Status:            string(order.Status),
		DeliveryAgentID:   order.DeliveryAgentID,
		CreatedAt:         order.CreatedAt,
	}

	if order.TotalPrice.Valid {
		total := order.TotalPrice.Decimal
		response.TotalPrice = &total
	}
	if order.User != nil {
		response.UserName = order.User.Name
	}
	if order.Pharmacy != nil {
		response.PharmacyName = order.Pharmacy.Name
	}

	if len(order.Items) > 0 {
		response.Items = make([]dto.OrderItemResponse, len(order.Items))
		for i, item := range order.Items {
			response.Items[i] = dto.OrderItemResponse{
				ID:        item.ID,
				OrderID:   item.OrderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}
	}

	return response
}

func OrdersToResponses(orders []entity.Order) []dto.OrderResponse {
	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *OrderToResponse(&orders[i])
	}
	return responses
}

// LineItems converts request items into unpriced order lines
func LineItems(items []dto.OrderItemRequest) []entity.LineItem {
	lines := make([]entity.LineItem, len(items))
	for i, item := range items {
		lines[i] = entity.LineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}
