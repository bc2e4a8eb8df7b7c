package entity

// CohortStatus is the lifecycle state of a cohort or cohort batch.
type CohortStatus string

const (
	CohortStatusActive    CohortStatus = "ACTIVE"
	CohortStatusUpcoming  CohortStatus = "UPCOMING"
	CohortStatusCompleted CohortStatus = "COMPLETED"
)

// IsValid checks if the CohortStatus is a known value.
func (s CohortStatus) IsValid() bool {
	switch s {
	case CohortStatusActive, CohortStatusUpcoming, CohortStatusCompleted:
		return true
	default:
		return false
	}
}

// Cohort is a scheduled instance of a course with assigned facilitators
// and enrolled participants. Dates are ISO-8601 strings as the backend
// serves them.
type Cohort struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	StartDate  string       `json:"startDate"`
	EndDate    string       `json:"endDate,omitempty"`
	Status     CohortStatus `json:"status,omitempty"`
	CenterName string       `json:"centerName,omitempty"`
}

// CohortBatch is an intake grouping multiple cohorts.
type CohortBatch struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	StartDate  string       `json:"startDate"`
	EndDate    string       `json:"endDate,omitempty"`
	Status     CohortStatus `json:"status,omitempty"`
	CenterName string       `json:"centerName,omitempty"`
}

// FacilitatorCohort is the facilitator's view of one of their cohorts,
// including enrollment counts.
type FacilitatorCohort struct {
	CohortID           string `json:"cohortId"`
	CohortName         string `json:"cohortName"`
	CourseName         string `json:"courseName"`
	CourseCode         string `json:"courseCode"`
	BatchName          string `json:"batchName"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	Status             string `json:"status"`
	TotalParticipants  int    `json:"totalParticipants"`
	ActiveParticipants int    `json:"activeParticipants"`
}

// FacilitatorProfile describes the signed-in facilitator and their center.
type FacilitatorProfile struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	OrganizationName string `json:"organizationName"`
	CenterName       string `json:"centerName"`
}
