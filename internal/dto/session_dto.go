package dto

// CreateSessionRequest registers a candidate for an interview room.
type CreateSessionRequest struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email,omitempty"`
}

// CreateSessionResponse carries the room credentials for the websocket join.
type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	RoomToken string `json:"room_token"`
}

// UploadResumeResponse returns the token the init payload may reference
// instead of inlining the extracted resume text.
type UploadResumeResponse struct {
	ResumeToken string `json:"resume_token"`
	Characters  int    `json:"characters"`
}
