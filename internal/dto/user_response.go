package dto

import "github.com/LeonEnneken/Leitstellen-Backend/internal/domain"

type MeResponse struct {
	User        domain.User         `json:"user"`
	Member      *domain.Member      `json:"member,omitempty"`
	Group       *domain.Group       `json:"group,omitempty"`
	Departments []domain.Department `json:"departments"`
	Permissions []string            `json:"permissions"`
}
