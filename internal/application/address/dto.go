package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/address"
)

// CreateRequest represents a request to create or replace an address
type CreateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Street  string `json:"street" binding:"required,min=1,max=200"`
	City    string `json:"city" binding:"required,min=1,max=100"`
	State   string `json:"state" binding:"required,min=1,max=100"`
	Country string `json:"country" binding:"required,min=1,max=100"`
	Zip     string `json:"zip" binding:"required,min=1,max=20"`
	Phone   string `json:"phone" binding:"required,min=1,max=30"`
}

// Response represents an address in API responses
type Response struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	Zip       string    `json:"zip"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts an address to its API representation
func ToResponse(a *address.Address) Response {
	return Response{
		ID:        a.ID,
		Name:      a.Name,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		Zip:       a.Zip,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToResponseList converts a slice of addresses
func ToResponseList(addrs []address.Address) []Response {
	out := make([]Response, 0, len(addrs))
	for idx := range addrs {
		out = append(out, ToResponse(&addrs[idx]))
	}
	return out
}
