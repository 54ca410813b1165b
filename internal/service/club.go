package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubpulse/internal/domain"
	"github.com/clubpulse/internal/jsonstore"
	"github.com/clubpulse/internal/questions"
	"github.com/clubpulse/internal/websocket"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Generator produces a practice summary from a set of responses. Failures
// are folded into the summary text, never returned.
type Generator interface {
	Generate(ctx context.Context, practiceID string, responses []domain.Response) domain.Summary
}

// ClubService provides business logic for teams, players, practices and
// feedback. Validation, referential integrity and uniqueness rules all live
// here; the repository below it is free of business rules.
type ClubService struct {
	repo      *jsonstore.Repository
	catalog   *questions.Catalog
	generator Generator
	hub       *websocket.Hub
	logger    *slog.Logger
}

// NewClubService creates a new club service
func NewClubService(
	repo *jsonstore.Repository,
	catalog *questions.Catalog,
	generator Generator,
	logger *slog.Logger,
) *ClubService {
	return &ClubService{
		repo:      repo,
		catalog:   catalog,
		generator: generator,
		logger:    logger,
	}
}

// SetHub attaches a WebSocket hub for broadcasting club events.
func (s *ClubService) SetHub(hub *websocket.Hub) {
	s.hub = hub
}

// CreateTeam creates a team from a validated request.
func (s *ClubService) CreateTeam(ctx context.Context, req domain.CreateTeamRequest) (domain.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Team{}, fmt.Errorf("%w: team name is required", domain.ErrInvalidRequest)
	}

	team := domain.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateTeam(team); err != nil {
		return domain.Team{}, fmt.Errorf("creating team: %w", err)
	}
	return team, nil
}

// Teams returns all teams.
func (s *ClubService) Teams(ctx context.Context) ([]domain.Team, error) {
	return s.repo.Teams()
}

// Team returns a team by id.
func (s *ClubService) Team(ctx context.Context, id string) (domain.Team, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Team{}, fmt.Errorf("%w: team id is required", domain.ErrInvalidRequest)
	}
	team, ok, err := s.repo.TeamByID(id)
	if err != nil {
		return domain.Team{}, err
	}
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return team, nil
}

// Players returns all players, optionally filtered by team.
func (s *ClubService) Players(ctx context.Context, teamID string) ([]domain.Player, error) {
	if teamID != "" {
		return s.repo.PlayersByTeam(teamID)
	}
	return s.repo.Players()
}

// Player returns a player by id.
func (s *ClubService) Player(ctx context.Context, id string) (domain.Player, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Player{}, fmt.Errorf("%w: player id is required", domain.ErrInvalidRequest)
	}
	player, ok, err := s.repo.PlayerByID(id)
	if err != nil {
		return domain.Player{}, err
	}
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return player, nil
}

// RegisterPlayer registers a player to a team. The same email may register
// to different teams, but is rejected case-insensitively within one team.
func (s *ClubService) RegisterPlayer(ctx context.Context, req domain.RegisterPlayerRequest) (domain.Player, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	teamID := strings.TrimSpace(req.TeamID)

	if name == "" {
		return domain.Player{}, fmt.Errorf("%w: player name is required", domain.ErrInvalidRequest)
	}
	if email == "" {
		return domain.Player{}, fmt.Errorf("%w: player email is required", domain.ErrInvalidRequest)
	}
	if teamID == "" {
		return domain.Player{}, fmt.Errorf("%w: team id is required", domain.ErrInvalidRequest)
	}
	if !emailPattern.MatchString(email) {
		return domain.Player{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidRequest)
	}

	if _, ok, err := s.repo.TeamByID(teamID); err != nil {
		return domain.Player{}, err
	} else if !ok {
		return domain.Player{}, domain.ErrTeamNotFound
	}

	if _, ok, err := s.repo.PlayerByTeamAndEmail(teamID, email); err != nil {
		return domain.Player{}, err
	} else if ok {
		return domain.Player{}, domain.ErrDuplicatePlayer
	}

	player := domain.Player{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(email),
		TeamID:       teamID,
		RegisteredAt: time.Now(),
	}
	if err := s.repo.CreatePlayer(player); err != nil {
		return domain.Player{}, fmt.Errorf("creating player: %w", err)
	}
	return player, nil
}

// Practices returns all practices, optionally filtered by team.
func (s *ClubService) Practices(ctx context.Context, teamID string) ([]domain.Practice, error) {
	if teamID != "" {
		return s.repo.PracticesByTeam(teamID)
	}
	return s.repo.Practices()
}

// Practice returns a practice by id.
func (s *ClubService) Practice(ctx context.Context, id string) (domain.Practice, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Practice{}, fmt.Errorf("%w: practice id is required", domain.ErrInvalidRequest)
	}
	practice, ok, err := s.repo.PracticeByID(id)
	if err != nil {
		return domain.Practice{}, err
	}
	if !ok {
		return domain.Practice{}, domain.ErrPracticeNotFound
	}
	return practice, nil
}

// SchedulePractice creates a practice for a team. There is deliberately no
// duplicate check: identically timed practices for a team are allowed, and
// past dates are valid.
func (s *ClubService) SchedulePractice(ctx context.Context, req domain.SchedulePracticeRequest) (domain.Practice, error) {
	name := strings.TrimSpace(req.Name)
	teamID := strings.TrimSpace(req.TeamID)
	date := strings.TrimSpace(req.Date)
	startTime := strings.TrimSpace(req.Time)

	if name == "" {
		return domain.Practice{}, fmt.Errorf("%w: practice name is required", domain.ErrInvalidRequest)
	}
	if teamID == "" {
		return domain.Practice{}, fmt.Errorf("%w: team id is required", domain.ErrInvalidRequest)
	}
	if date == "" {
		return domain.Practice{}, fmt.Errorf("%w: practice date is required", domain.ErrInvalidRequest)
	}
	if startTime == "" {
		return domain.Practice{}, fmt.Errorf("%w: practice time is required", domain.ErrInvalidRequest)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.Practice{}, fmt.Errorf("%w: practice date must be in YYYY-MM-DD format", domain.ErrInvalidRequest)
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return domain.Practice{}, fmt.Errorf("%w: practice time must be in HH:MM format", domain.ErrInvalidRequest)
	}

	if _, ok, err := s.repo.TeamByID(teamID); err != nil {
		return domain.Practice{}, err
	} else if !ok {
		return domain.Practice{}, domain.ErrTeamNotFound
	}

	practice := domain.Practice{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		Name:      name,
		Date:      date,
		Time:      startTime,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreatePractice(practice); err != nil {
		return domain.Practice{}, fmt.Errorf("creating practice: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastPracticeScheduled(practice.TeamID, practice)
	}
	return practice, nil
}

// Questions returns the feedback catalog in order.
func (s *ClubService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.catalog.Load()
}

// PracticeFeedback returns a practice together with all of its responses.
func (s *ClubService) PracticeFeedback(ctx context.Context, practiceID string) (domain.PracticeFeedback, error) {
	practice, err := s.Practice(ctx, practiceID)
	if err != nil {
		return domain.PracticeFeedback{}, err
	}
	responses, err := s.repo.ResponsesByPractice(practice.ID)
	if err != nil {
		return domain.PracticeFeedback{}, err
	}
	return domain.PracticeFeedback{Practice: practice, Responses: responses}, nil
}

// SubmitResponse stores a player's feedback for a practice. Checks run in
// order: practice exists, player exists, teams match, no prior submission,
// every question id exists in the catalog. Answers are trimmed and stored
// in the submitted order.
func (s *ClubService) SubmitResponse(ctx context.Context, practiceID string, req domain.SubmitResponseRequest) (domain.Response, error) {
	playerID := strings.TrimSpace(req.PlayerID)
	if strings.TrimSpace(practiceID) == "" {
		return domain.Response{}, fmt.Errorf("%w: practice id is required", domain.ErrInvalidRequest)
	}
	if playerID == "" {
		return domain.Response{}, fmt.Errorf("%w: player id is required", domain.ErrInvalidRequest)
	}
	if len(req.Answers) == 0 {
		return domain.Response{}, fmt.Errorf("%w: responses array is required and must not be empty", domain.ErrInvalidRequest)
	}
	for _, answer := range req.Answers {
		if strings.TrimSpace(answer.QuestionID) == "" {
			return domain.Response{}, fmt.Errorf("%w: each response must have a valid question id", domain.ErrInvalidRequest)
		}
		if strings.TrimSpace(answer.Text) == "" {
			return domain.Response{}, fmt.Errorf("%w: each response must have a non-empty answer", domain.ErrInvalidRequest)
		}
	}

	practice, ok, err := s.repo.PracticeByID(practiceID)
	if err != nil {
		return domain.Response{}, err
	}
	if !ok {
		return domain.Response{}, domain.ErrPracticeNotFound
	}

	player, ok, err := s.repo.PlayerByID(playerID)
	if err != nil {
		return domain.Response{}, err
	}
	if !ok {
		return domain.Response{}, domain.ErrPlayerNotFound
	}

	if player.TeamID != practice.TeamID {
		return domain.Response{}, domain.ErrTeamMismatch
	}

	if _, ok, err := s.repo.ResponseByPlayerAndPractice(player.ID, practice.ID); err != nil {
		return domain.Response{}, err
	} else if ok {
		return domain.Response{}, domain.ErrDuplicateResponse
	}

	catalog, err := s.catalog.Load()
	if err != nil {
		return domain.Response{}, err
	}
	known := make(map[string]bool, len(catalog))
	for _, q := range catalog {
		known[q.ID] = true
	}
	for _, answer := range req.Answers {
		if !known[strings.TrimSpace(answer.QuestionID)] {
			return domain.Response{}, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, answer.QuestionID)
		}
	}

	answers := make([]domain.Answer, len(req.Answers))
	for i, answer := range req.Answers {
		answers[i] = domain.Answer{
			QuestionID: strings.TrimSpace(answer.QuestionID),
			Text:       strings.TrimSpace(answer.Text),
		}
	}

	response := domain.Response{
		ID:          uuid.New().String(),
		PracticeID:  practice.ID,
		PlayerID:    player.ID,
		Answers:     answers,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.CreateResponse(response); err != nil {
		return domain.Response{}, fmt.Errorf("creating response: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastFeedbackSubmitted(practice.TeamID, response)
	}
	return response, nil
}

// Summary returns the cached summary for a practice, generating and
// persisting one on first access. The read path intentionally writes on a
// cache miss.
func (s *ClubService) Summary(ctx context.Context, practiceID string) (domain.Summary, error) {
	practice, err := s.Practice(ctx, practiceID)
	if err != nil {
		return domain.Summary{}, err
	}

	if cached, ok, err := s.repo.SummaryByPractice(practice.ID); err != nil {
		return domain.Summary{}, err
	} else if ok {
		return cached, nil
	}

	responses, err := s.repo.ResponsesByPractice(practice.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	generated := s.generator.Generate(ctx, practice.ID, responses)
	if err := s.repo.CreateSummary(generated); err != nil {
		return domain.Summary{}, fmt.Errorf("caching summary: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastSummaryGenerated(practice.TeamID, generated)
	}
	return generated, nil
}

// RegenerateSummary rebuilds the summary from the current responses
// regardless of cache state, overwriting any cached entry.
func (s *ClubService) RegenerateSummary(ctx context.Context, practiceID string) (domain.Summary, error) {
	practice, err := s.Practice(ctx, practiceID)
	if err != nil {
		return domain.Summary{}, err
	}

	responses, err := s.repo.ResponsesByPractice(practice.ID)
	if err != nil {
		return domain.Summary{}, err
	}
	generated := s.generator.Generate(ctx, practice.ID, responses)

	_, cached, err := s.repo.SummaryByPractice(practice.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	var saved domain.Summary
	if cached {
		saved, err = s.repo.UpdateSummary(generated)
	} else {
		saved = generated
		err = s.repo.CreateSummary(generated)
	}
	if err != nil {
		return domain.Summary{}, fmt.Errorf("caching summary: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastSummaryGenerated(practice.TeamID, saved)
	}
	return saved, nil
}
