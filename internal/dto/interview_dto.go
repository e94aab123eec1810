package dto

import (
	"encoding/json"

	"ai-interviewer-be/pkg/fraud"
)

// Inbound message types (candidate client -> server).
const (
	MsgTypeInit       = "init"
	MsgTypeAnswer     = "answer"
	MsgTypeVideoFrame = "video_frame"
)

// Outbound message types (server -> candidate client).
const (
	MsgTypeQuestion     = "question"
	MsgTypeFraudAlert   = "fraud_alert"
	MsgTypeInterviewEnd = "interview_end"
)

// Envelope is the framing for every message on the interview socket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// InitPayload carries the candidate profile. Resume is either inlined or
// referenced through the token returned by the resume upload endpoint.
type InitPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Resume      string `json:"resume,omitempty"`
	ResumeToken string `json:"resume_token,omitempty"`
}

// Verdict values.
const (
	VerdictHire   = "HIRE"
	VerdictReject = "REJECT"
)

// AggregateScores holds the per-criterion means across all scored answers.
type AggregateScores struct {
	Technical     float64 `json:"technical"`
	Communication float64 `json:"communication"`
	Confidence    float64 `json:"confidence"`
}

// Decision is the terminal output of a session, computed exactly once.
type Decision struct {
	FinalScore float64         `json:"final_score"`
	Verdict    string          `json:"verdict"`
	Scores     AggregateScores `json:"scores"`
}

// InterviewEndPayload closes the session on the wire.
type InterviewEndPayload struct {
	Report   string   `json:"report"`
	Decision Decision `json:"decision"`
}

// FraudAlertPayload forwards a suspicious frame judgment.
type FraudAlertPayload = fraud.Signal

// NewOutbound frames an outbound message. Marshal errors cannot happen for
// the payload types used here, so the result is safe to enqueue directly.
func NewOutbound(msgType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
