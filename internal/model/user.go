package model

type User struct {
	ID           string `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Ctime        int64  `json:"ctime" db:"ctime"`
	Mtime        int64  `json:"mtime" db:"mtime"`
}
