package dto

import "github.com/LeonEnneken/Leitstellen-Backend/internal/domain"

type StatusRequest struct {
	Status domain.DutyStatus `json:"status"`
}

type SetupRequest struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}
