package store

// Speaker roles recorded in the dialogue transcript.
const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// Turn controller states. A session only ever moves forward through these.
const (
	StateAwaitingInit   = "AWAITING_INIT"
	StateAwaitingAnswer = "AWAITING_ANSWER"
	StateConcluding     = "CONCLUDING"
	StateTerminated     = "TERMINATED"
)

// Candidate is the profile supplied at init (resume either inline or resolved
// from a previously uploaded document token).
type Candidate struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Resume      string `json:"resume"`
	ResumeToken string `json:"resume_token"`
}

// TranscriptEntry is one utterance in the dialogue history.
type TranscriptEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the full in-memory state of one candidate's interview. It lives
// exactly as long as its websocket connection and is owned by that
// connection's dispatcher; nothing here is shared across sessions.
type Session struct {
	ID        string    `json:"id"`
	Candidate Candidate `json:"candidate"`
	State     string    `json:"state"`
	TurnIndex int       `json:"turn_index"`

	Transcript []TranscriptEntry `json:"transcript"`

	// Per-criterion score lists, appended once per scored answer.
	Technical     []int `json:"technical"`
	Communication []int `json:"communication"`
	Confidence    []int `json:"confidence"`

	// IdealAnswer is the evaluation target for the most recently asked,
	// not-yet-scored question.
	IdealAnswer string `json:"ideal_answer"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		State: StateAwaitingInit,
	}
}

// AppendTranscript records one utterance.
func (s *Session) AppendTranscript(role, text string) {
	s.Transcript = append(s.Transcript, TranscriptEntry{Role: role, Text: text})
}

// AppendScores records one complete score triple.
func (s *Session) AppendScores(technical, communication, confidence int) {
	s.Technical = append(s.Technical, technical)
	s.Communication = append(s.Communication, communication)
	s.Confidence = append(s.Confidence, confidence)
}

// Terminated reports whether the session has reached its terminal state.
func (s *Session) Terminated() bool {
	return s.State == StateTerminated
}
