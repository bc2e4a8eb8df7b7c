package entity

// AttendanceStatus is the per-session attendance mark for a participant.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// IsValid checks if the AttendanceStatus is a known value.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	default:
		return false
	}
}

// AttendanceParticipant is one row of a session's attendance sheet.
// Status and AttendanceID are empty until the session has been marked.
type AttendanceParticipant struct {
	ParticipantID string           `json:"participantId"`
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	Email         string           `json:"email"`
	Status        AttendanceStatus `json:"status,omitempty"`
	Remarks       string           `json:"remarks,omitempty"`
	AttendanceID  string           `json:"attendanceId,omitempty"`
}

// AttendanceSheet is the attendance view for one cohort session.
type AttendanceSheet struct {
	SessionDate  string                  `json:"sessionDate"`
	CohortID     string                  `json:"cohortId"`
	CohortName   string                  `json:"cohortName"`
	Participants []AttendanceParticipant `json:"participants"`
}

// AttendanceRecord is a single mark submitted for a participant.
type AttendanceRecord struct {
	ParticipantID string           `json:"participantId"`
	Status        AttendanceStatus `json:"status"`
	Remarks       string           `json:"remarks,omitempty"`
}

// MarkAttendanceRequest submits a session's marks for a cohort in one call.
type MarkAttendanceRequest struct {
	SessionDate string             `json:"sessionDate"`
	CohortID    string             `json:"cohortId"`
	Records     []AttendanceRecord `json:"records"`
}

// MarkAttendanceResult reports how many records were created vs updated.
type MarkAttendanceResult struct {
	Message       string `json:"message"`
	RecordedCount int    `json:"recordedCount"`
	UpdatedCount  int    `json:"updatedCount"`
}
