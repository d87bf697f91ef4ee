package api

import "time"

// ImageUpload is the multipart form payload for uploading an image. The
// caller identity fields stand in for the identity collaborator that owns
// authentication; this service does not verify them.
type ImageUpload struct {
	OwnerID     string    `form:"ownerId" binding:"required"`
	OwnerName   string    `form:"ownerName" binding:"required"`
	Caption     string    `form:"caption" binding:"required,max=40"`
	Description string    `form:"description" binding:"required,max=200"`
	DateTaken   time.Time `form:"dateTaken" time_format:"2006-01-02" binding:"required"`
}

// ImageEdit is the payload for editing an image's mutable fields. Ownership
// and id are immutable and therefore absent.
type ImageEdit struct {
	Caption     string    `json:"caption" binding:"required,max=40"`
	Description string    `json:"description" binding:"required,max=200"`
	DateTaken   time.Time `json:"dateTaken" time_format:"2006-01-02" binding:"required"`
}

// ImageView is the wire representation of an image record plus its resolved
// blob URL.
type ImageView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	OwnerName   string    `json:"ownerName"`
	Caption     string    `json:"caption"`
	Description string    `json:"description"`
	DateTaken   time.Time `json:"dateTaken"`
	URI         string    `json:"uri"`
}

// LogEntryView is the wire representation of one view-audit entry.
type LogEntryView struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ImageID   string    `json:"imageId"`
	Caption   string    `json:"caption"`
	URI       string    `json:"uri"`
	EntryDate time.Time `json:"entryDate"`
}
