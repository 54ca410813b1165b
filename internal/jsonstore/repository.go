package jsonstore

import (
	"strings"

	"github.com/clubpulse/internal/domain"
)

// Collection names. Each maps to <name>.json under the data directory.
const (
	colTeams     = "teams"
	colPlayers   = "players"
	colPractices = "practices"
	colQuestions = "practice-questions"
	colResponses = "responses"
	colSummaries = "summaries"
)

// Repository binds the generic store to the club's collections. It carries
// no business logic; uniqueness and referential rules live in the service
// layer.
type Repository struct {
	store *Store
}

// NewRepository creates a repository over the given store.
func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

// Teams returns all teams.
func (r *Repository) Teams() ([]domain.Team, error) {
	return ReadAll[domain.Team](r.store, colTeams)
}

// TeamByID returns a team by id.
func (r *Repository) TeamByID(id string) (domain.Team, bool, error) {
	return FindByKey[domain.Team](r.store, colTeams, id)
}

// CreateTeam persists a new team.
func (r *Repository) CreateTeam(team domain.Team) error {
	return Create(r.store, colTeams, team)
}

// Players returns all players.
func (r *Repository) Players() ([]domain.Player, error) {
	return ReadAll[domain.Player](r.store, colPlayers)
}

// PlayersByTeam returns the players registered to a team.
func (r *Repository) PlayersByTeam(teamID string) ([]domain.Player, error) {
	return Filter(r.store, colPlayers, func(p domain.Player) bool {
		return p.TeamID == teamID
	})
}

// PlayerByID returns a player by id.
func (r *Repository) PlayerByID(id string) (domain.Player, bool, error) {
	return FindByKey[domain.Player](r.store, colPlayers, id)
}

// CreatePlayer persists a new player.
func (r *Repository) CreatePlayer(player domain.Player) error {
	return Create(r.store, colPlayers, player)
}

// Practices returns all practices.
func (r *Repository) Practices() ([]domain.Practice, error) {
	return ReadAll[domain.Practice](r.store, colPractices)
}

// PracticesByTeam returns the practices scheduled for a team.
func (r *Repository) PracticesByTeam(teamID string) ([]domain.Practice, error) {
	return Filter(r.store, colPractices, func(p domain.Practice) bool {
		return p.TeamID == teamID
	})
}

// PracticeByID returns a practice by id.
func (r *Repository) PracticeByID(id string) (domain.Practice, bool, error) {
	return FindByKey[domain.Practice](r.store, colPractices, id)
}

// CreatePractice persists a new practice.
func (r *Repository) CreatePractice(practice domain.Practice) error {
	return Create(r.store, colPractices, practice)
}

// Questions returns the raw question catalog in file order.
func (r *Repository) Questions() ([]domain.Question, error) {
	return ReadAll[domain.Question](r.store, colQuestions)
}

// ResponsesByPractice returns all responses submitted for a practice.
func (r *Repository) ResponsesByPractice(practiceID string) ([]domain.Response, error) {
	return Filter(r.store, colResponses, func(resp domain.Response) bool {
		return resp.PracticeID == practiceID
	})
}

// ResponseByPlayerAndPractice returns a player's response for a practice,
// if one exists.
func (r *Repository) ResponseByPlayerAndPractice(playerID, practiceID string) (domain.Response, bool, error) {
	matches, err := Filter(r.store, colResponses, func(resp domain.Response) bool {
		return resp.PlayerID == playerID && resp.PracticeID == practiceID
	})
	if err != nil {
		return domain.Response{}, false, err
	}
	if len(matches) == 0 {
		return domain.Response{}, false, nil
	}
	return matches[0], true, nil
}

// CreateResponse persists a new response.
func (r *Repository) CreateResponse(response domain.Response) error {
	return Create(r.store, colResponses, response)
}

// SummaryByPractice returns the cached summary for a practice, if any.
func (r *Repository) SummaryByPractice(practiceID string) (domain.Summary, bool, error) {
	return FindByKey[domain.Summary](r.store, colSummaries, practiceID)
}

// CreateSummary persists a new summary.
func (r *Repository) CreateSummary(summary domain.Summary) error {
	return Create(r.store, colSummaries, summary)
}

// UpdateSummary overwrites the text and timestamp of an existing summary.
func (r *Repository) UpdateSummary(summary domain.Summary) (domain.Summary, error) {
	return Update(r.store, colSummaries, summary.PracticeID, func(s domain.Summary) domain.Summary {
		s.Text = summary.Text
		s.GeneratedAt = summary.GeneratedAt
		return s
	})
}

// PlayerByTeamAndEmail returns the player on a team whose email matches
// case-insensitively, if any. This backs the duplicate-registration check.
func (r *Repository) PlayerByTeamAndEmail(teamID, email string) (domain.Player, bool, error) {
	lowered := strings.ToLower(email)
	matches, err := Filter(r.store, colPlayers, func(p domain.Player) bool {
		return p.TeamID == teamID && strings.ToLower(p.Email) == lowered
	})
	if err != nil {
		return domain.Player{}, false, err
	}
	if len(matches) == 0 {
		return domain.Player{}, false, nil
	}
	return matches[0], true, nil
}
