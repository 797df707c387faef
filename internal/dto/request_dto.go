package dto

// CreateDeckRequest creates an empty deck. OwnerID is ignored when the
// request is authenticated; the token subject is used instead.
type CreateDeckRequest struct {
	Title    string `json:"title" binding:"required"`
	OwnerID  string `json:"owner_id"`
	IsPublic bool   `json:"is_public"`
}

type FlashcardInput struct {
	Term       string `json:"term" binding:"required"`
	Definition string `json:"definition" binding:"required"`
}

type AddFlashcardsRequest struct {
	Flashcards []FlashcardInput `json:"flashcards" binding:"required,min=1,dive"`
}

// GenerateQuizRequest carries the requester for unauthenticated deployments.
type GenerateQuizRequest struct {
	UserID string `json:"user_id"`
}
