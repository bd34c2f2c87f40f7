package domain

import "time"

type Assignment struct {
	ID            int64     `json:"id"`
	PhysicianID   int64     `json:"physicianID"`
	InstitutionID int64     `json:"institutionID"`
	Date          string    `json:"date"`      // 2006-01-02
	StartTime     string    `json:"startTime"` // HH:MM
	EndTime       string    `json:"endTime"`   // HH:MM
	GroupTag      string    `json:"groupTag"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}
