package entity

type SessionState string

const (
	StateIdle           SessionState = "idle"
	StateCapturing      SessionState = "capturing"
	StatePreviewing     SessionState = "previewing"
	StateReadyToSubmit  SessionState = "ready_to_submit"
	StateConfirmWarning SessionState = "confirm_warning"
	StateUploading      SessionState = "uploading"
)

// UploadSession is a read-only snapshot of one user's upload flow. All
// mutation goes through the upload usecase; every state before Uploading is
// purely local and reversible.
type UploadSession struct {
	OwnerID     string       `json:"owner_id"`
	State       SessionState `json:"state"`
	HasImage    bool         `json:"has_image"`
	HasFix      bool         `json:"has_fix"`
	Latitude    float64      `json:"latitude,omitempty"`
	Longitude   float64      `json:"longitude,omitempty"`
	Description string       `json:"description"`
	IsAnonymous bool         `json:"is_anonymous"`
	Preview     string       `json:"preview,omitempty"`
}

// CanSubmit is the submit guard: an image and a location fix must both be
// held before the flow may advance to the confirmation step.
func (s *UploadSession) CanSubmit() bool {
	return s.HasImage && s.HasFix
}
