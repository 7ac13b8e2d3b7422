package model

type Asset struct {
	ID          string `json:"id" db:"id"`
	OwnerID     string `json:"owner_id" db:"owner_id"`
	FileKey     string `json:"key" db:"file_key"`
	URL         string `json:"url" db:"url"`
	Name        string `json:"name" db:"name"`
	ContentType string `json:"content_type" db:"content_type"`
	Size        int64  `json:"size" db:"size"`
	Ctime       int64  `json:"ctime" db:"ctime"`
	Mtime       int64  `json:"mtime" db:"mtime"`
}
