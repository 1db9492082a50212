package dto

type UnreadCountDTO struct {
	Unread int `json:"unread"`
}

type MarkAllReadDTO struct {
	Updated int `json:"updated"`
}

type UploadResultDTO struct {
	Paths []string `json:"paths"`
}
