package model

import "time"

// Visit 门店拜访记录
type Visit struct {
	ID        string    `json:"id" db:"id"`
	Owner     string    `json:"owner" db:"owner"`
	Store     string    `json:"loja" db:"store_name"`
	Address   string    `json:"endereco" db:"address"`
	Contact   string    `json:"contato" db:"contact"`
	Comments  string    `json:"comentarios" db:"comments"`
	PhotoPath string    `json:"photoPath" db:"photo_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
