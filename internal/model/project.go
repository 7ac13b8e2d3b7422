package model

import "encoding/json"

// Project is a named design document. Data is kept as the raw JSON the
// client sent; the backend never inspects it.
type Project struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
	OwnerID string          `json:"owner_id"`
	Ctime   int64           `json:"ctime"`
	Mtime   int64           `json:"mtime"`
}
