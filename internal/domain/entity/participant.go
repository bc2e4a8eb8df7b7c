package entity

// Participant is a trainee enrolled in a cohort.
type Participant struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	CohortID  string `json:"cohortId"`
	Gender    string `json:"gender,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ParticipantStats summarizes enrollment across the program.
type ParticipantStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
}

// ParticipantFilter narrows participant listings server-side.
// Zero values mean "no filter".
type ParticipantFilter struct {
	CohortID string
	BatchID  string
	Status   string
}
