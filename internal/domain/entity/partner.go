package entity

// Partner is an implementing partner organization visible to donors.
type Partner struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Country           string `json:"country,omitempty"`
	ActiveCohorts     int    `json:"activeCohorts"`
	TotalParticipants int    `json:"totalParticipants"`
}

// DonorStatistics aggregates program impact for the donor view.
type DonorStatistics struct {
	TotalPartners       int     `json:"totalPartners"`
	TotalParticipants   int     `json:"totalParticipants"`
	CompletionRate      float64 `json:"completionRate"`
	ActiveCohorts       int     `json:"activeCohorts"`
	ParticipantsByMonth []struct {
		Month string `json:"month"`
		Count int    `json:"count"`
	} `json:"participantsByMonth,omitempty"`
}
