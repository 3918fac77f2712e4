package dto

type UploadDocumentResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	ChunksAdded int    `json:"chunks_added"`
}

type ReindexResponse struct {
	Message string `json:"message"`
	JobId   string `json:"job_id"`
}

// ReindexJobMessage is the payload of a reindex job on the event bus.
type ReindexJobMessage struct {
	JobId       string `json:"job_id"`
	RequestedAt string `json:"requested_at"`
}
