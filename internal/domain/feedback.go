package domain

import "time"

// Question is one entry of the fixed feedback catalog. The catalog is seed
// data: exactly four questions with orders 1..4 are expected.
type Question struct {
	ID    string `json:"id"`
	Text  string `json:"question"`
	Order int    `json:"order"`
}

// Key returns the storage key for a question.
func (q Question) Key() string { return q.ID }

// Answer is a single question/answer pair within a response.
type Answer struct {
	QuestionID string `json:"questionId"`
	Text       string `json:"answer"`
}

// Response is one player's feedback for one practice. At most one response
// exists per (player, practice) pair; answers keep the submitted order.
type Response struct {
	ID          string    `json:"id"`
	PracticeID  string    `json:"practiceId"`
	PlayerID    string    `json:"playerId"`
	Answers     []Answer  `json:"responses"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Key returns the storage key for a response.
func (r Response) Key() string { return r.ID }

// Summary is the cached generated summary for a practice. It is keyed by
// practice id rather than carrying its own id, and is the only entity that
// may be overwritten after creation.
type Summary struct {
	PracticeID  string    `json:"practiceId"`
	Text        string    `json:"summary"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Key returns the storage key for a summary.
func (s Summary) Key() string { return s.PracticeID }

// SubmitResponseRequest is the payload for submitting practice feedback.
type SubmitResponseRequest struct {
	PlayerID string   `json:"playerId"`
	Answers  []Answer `json:"responses"`
}

// PracticeFeedback bundles a practice with all responses submitted for it.
type PracticeFeedback struct {
	Practice  Practice   `json:"practice"`
	Responses []Response `json:"responses"`
}
