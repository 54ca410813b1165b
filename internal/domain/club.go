package domain

import "time"

// Team is the root entity; players and practices belong to exactly one team.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the storage key for a team.
func (t Team) Key() string { return t.ID }

// Player represents a registered club member.
// (TeamID, lowercased Email) is unique across all players.
type Player struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	TeamID       string    `json:"teamId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Key returns the storage key for a player.
func (p Player) Key() string { return p.ID }

// Practice is a scheduled session for a team. Date is calendar-date text
// (YYYY-MM-DD) and Time is 24-hour clock text (HH:MM); past dates are
// permitted.
type Practice struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"teamId"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the storage key for a practice.
func (p Practice) Key() string { return p.ID }

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// RegisterPlayerRequest is the payload for registering a player to a team.
type RegisterPlayerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	TeamID string `json:"teamId"`
}

// SchedulePracticeRequest is the payload for scheduling a practice.
type SchedulePracticeRequest struct {
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}
