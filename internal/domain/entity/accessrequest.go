package entity

// AccessRequestStatus is the review state of a role request.
type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestRejected AccessRequestStatus = "rejected"
)

// AccessRequest is a pending role-assignment request from an unassigned
// user, reviewed by ME officer, donor or admin roles.
type AccessRequest struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId,omitempty"`
	UserEmail     string              `json:"userEmail,omitempty"`
	RequestedRole Role                `json:"requestedRole"`
	Status        AccessRequestStatus `json:"status"`
	Reason        string              `json:"reason,omitempty"`
	RequestedAt   string              `json:"requestedAt,omitempty"`
	ReviewedAt    string              `json:"reviewedAt,omitempty"`
	AdminComment  string              `json:"adminComment,omitempty"`
}
