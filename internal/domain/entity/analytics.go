package entity

// AnalyticsOverview is the ME officer's headline dashboard numbers.
type AnalyticsOverview struct {
	TotalParticipants     int     `json:"totalParticipants"`
	CompletedParticipants int     `json:"completedParticipants"`
	AverageScore          float64 `json:"averageScore"`
	ActiveCohorts         int     `json:"activeCohorts"`
	TotalCourses          int     `json:"totalCourses"`
	ActiveFacilitators    int     `json:"activeFacilitators"`
	PendingAccessRequests int     `json:"pendingAccessRequests"`
	CohortsByStatus       struct {
		Active    int `json:"ACTIVE"`
		Upcoming  int `json:"UPCOMING"`
		Completed int `json:"COMPLETED"`
	} `json:"cohortsByStatus"`
}

// RetentionPoint is one week of the enrolled-vs-active retention trend.
type RetentionPoint struct {
	Week     string `json:"week"`
	Enrolled int    `json:"enrolled"`
	Active   int    `json:"active"`
}

// AttendanceSummary is the program-wide attendance rate.
type AttendanceSummary struct {
	Rate    float64 `json:"rate"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
}

// TopPerformer is one row of the top-performers widget.
type TopPerformer struct {
	Name  string `json:"name"`
	Score string `json:"score"`
	Trend string `json:"trend"`
}
