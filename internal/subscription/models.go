package subscription

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wire-level messages. The frontend matches on these strings, so they
// are part of the public contract.
const (
	MsgRequiredFields = "Email and source are required"
	MsgInvalidEmail   = "Invalid email format"
	MsgSubmitFailed   = "Failed to submit email. Please try again."
	MsgSubmitted      = "Email submitted successfully"
	NoteAuthPending   = "Submission recorded without storage (store auth pending)"

	StatusMessage = "Email API endpoint"
)

type EmailSubmission struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Source       string             `bson:"source" json:"source"`
	UTMSource    string             `bson:"utm_source" json:"utmSource"`
	UTMMedium    string             `bson:"utm_medium" json:"utmMedium"`
	UTMCampaign  string             `bson:"utm_campaign" json:"utmCampaign"`
	Referrer     string             `bson:"referrer" json:"referrer"`
	IPAddress    string             `bson:"ip_address" json:"ipAddress"`
	UserAgent    string             `bson:"user_agent" json:"userAgent"`
	SubscribedAt time.Time          `bson:"subscribed_at" json:"subscribedAt"`
}

type SubmitEmailRequest struct {
	Email       string `json:"email"`
	Source      string `json:"source"`
	UTMSource   string `json:"utmSource"`
	UTMMedium   string `json:"utmMedium"`
	UTMCampaign string `json:"utmCampaign"`
	Referrer    string `json:"referrer"`
	UserAgent   string `json:"userAgent"`
}

type SubmitEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Note    string `json:"note,omitempty"`
}

// RequestMeta carries transport-level facts the handler extracts from
// the HTTP request before the service sees it.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type StatusResponse struct {
	Message string `json:"message"`
}
