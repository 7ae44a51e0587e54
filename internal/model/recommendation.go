package model

import "time"

// CandidateType distinguishes education content from partner offers.
type CandidateType string

// Candidate type constants.
const (
	CandidateEducation    CandidateType = "education"
	CandidatePartnerOffer CandidateType = "partner_offer"
)

// Candidate is one entry in the external content catalog: a piece of
// content that targets a specific persona.
type Candidate struct {
	ContentID string        `json:"content_id" yaml:"content_id"`
	Type      CandidateType `json:"type" yaml:"type"`
	PersonaID PersonaID     `json:"persona_id" yaml:"persona_id"`
	Title     string        `json:"title" yaml:"title"`
	Content   string        `json:"content" yaml:"content"`
	Rationale string        `json:"rationale" yaml:"rationale"`
	Tone      string        `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// RecommendationStatus tracks a recommendation through its lifecycle.
type RecommendationStatus string

// Recommendation status constants.
const (
	StatusPending  RecommendationStatus = "pending"
	StatusApproved RecommendationStatus = "approved"
	StatusRejected RecommendationStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s RecommendationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Recommendation is a piece of selected content awaiting operator review.
// Created in pending state; reaches a terminal state only through the
// workflow's guarded transitions.
type Recommendation struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	Type            CandidateType        `json:"type"`
	ContentID       string               `json:"content_id"`
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	Rationale       string               `json:"rationale"`
	Status          RecommendationStatus `json:"status"`
	Trace           *DecisionTrace       `json:"decision_trace"`
	CreatedAt       time.Time            `json:"created_at"`
	DecidedAt       *time.Time           `json:"decided_at,omitempty"`
	DecidedBy       string               `json:"decided_by,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
}
