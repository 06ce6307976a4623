package dto

import "time"

type StatisticsCounts struct {
	OnDuty           int `json:"ON_DUTY"`
	OffDuty          int `json:"OFF_DUTY"`
	AwayFromKeyboard int `json:"AWAY_FROM_KEYBOARD"`
	Offline          int `json:"OFFLINE"`
}

type GroupSummary struct {
	ID        string `json:"id"`
	UniqueID  int    `json:"uniqueId"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type DepartmentSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ControlCenterSummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// RosterEntry is one staff member in a per-status roster.
type RosterEntry struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId"`
	FirstName     string                `json:"firstName"`
	LastName      string                `json:"lastName"`
	PhoneNumber   string                `json:"phoneNumber"`
	GroupID       string                `json:"groupId"`
	Group         *GroupSummary         `json:"group,omitempty"`
	DepartmentIDs []string              `json:"departmentIds"`
	Departments   []DepartmentSummary   `json:"departments"`
	DutyNumber    *string               `json:"dutyNumber,omitempty"`
	ControlCenter *ControlCenterSummary `json:"controlCenter,omitempty"`
}

type ControlCenterMember struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	PhoneNumber string              `json:"phoneNumber"`
	Group       *GroupSummary       `json:"group,omitempty"`
	Departments []DepartmentSummary `json:"departments"`
	DutyNumber  *string             `json:"dutyNumber,omitempty"`
}

type ControlCenterDetails struct {
	ID         string                `json:"id"`
	Label      string                `json:"label"`
	Type       string                `json:"type"`
	Color      *string               `json:"color,omitempty"`
	Status     *string               `json:"status,omitempty"`
	Vehicle    *string               `json:"vehicle,omitempty"`
	MaxMembers int                   `json:"maxMembers"`
	Members    []ControlCenterMember `json:"members"`
}

type TrackingWindow struct {
	StartDate int64
	EndDate   int64
}

type TrackingTotal struct {
	UserID    string `json:"userId"`
	MemberID  string `json:"memberId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Total     int64  `json:"total"`
}

type DailyResetSummary struct {
	ExecutedAt       time.Time `json:"executedAt"`
	OnDuty           []string  `json:"onDuty"`
	OffDuty          []string  `json:"offDuty"`
	AwayFromKeyboard []string  `json:"awayFromKeyboard"`
}

func (s DailyResetSummary) Total() int {
	return len(s.OnDuty) + len(s.OffDuty) + len(s.AwayFromKeyboard)
}
