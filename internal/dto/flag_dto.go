package dto

type CreateFlagRequest struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

type UpdateFlagRequest struct {
	Status string `json:"status"`
}
