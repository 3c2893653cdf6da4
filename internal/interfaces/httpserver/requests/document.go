package requests

import "time"

// CreateDocumentRequest stores the first version of a document.
type CreateDocumentRequest struct {
	Title   string `json:"title" binding:"required"`
	Kind    string `json:"kind" binding:"required"`
	Content string `json:"content"`
}

// UpdateDocumentRequest appends a new version of an existing document.
type UpdateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

// RollbackDocumentRequest deletes the versions saved after the timestamp.
type RollbackDocumentRequest struct {
	After time.Time `json:"after" binding:"required"`
}

// TransferOwnershipRequest moves a guest session's resources to the
// authenticated registered user. The guest token proves the caller held
// that session; naming a guest ID alone is not enough.
type TransferOwnershipRequest struct {
	GuestToken string `json:"guest_token" binding:"required"`
}
