package entity

// Course is a curriculum item cohorts are scheduled against.
type Course struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code,omitempty"`
	Description   string `json:"description,omitempty"`
	DurationWeeks int    `json:"durationWeeks,omitempty"`
	Level         string `json:"level,omitempty"`
	Active        bool   `json:"active"`
}

// Facilitator is the ME officer's view of a facilitator account, with the
// batches and courses currently assigned to it.
type Facilitator struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	CenterName     string   `json:"centerName,omitempty"`
	CohortBatchIDs []string `json:"cohortBatchIds,omitempty"`
	Courses        []Course `json:"courses,omitempty"`
}
