package dto

type ControlCenterRequest struct {
	Label      string  `json:"label"`
	Type       string  `json:"type"`
	Color      *string `json:"color"`
	HasStatus  bool    `json:"hasStatus"`
	HasVehicle bool    `json:"hasVehicle"`
	MaxMembers *int    `json:"maxMembers"`
}
