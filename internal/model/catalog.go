package model

import "time"

// Catalog 用户的商品目录
type Catalog struct {
	ID            string    `json:"id" db:"id"`
	Owner         string    `json:"owner" db:"owner"`
	Name          string    `json:"name" db:"name"`
	TotalProducts int       `json:"totalProducts" db:"total_products"`
	Categories    []string  `json:"categories" db:"-"`
	Products      []Product `json:"products" db:"-"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Photo 商品照片引用（照片文件本身由外部存储负责）
type Photo struct {
	ID            string    `json:"id" db:"id"`
	Owner         string    `json:"owner" db:"owner"`
	ProductNumber string    `json:"productNumber" db:"product_number"`
	Barcode       string    `json:"barcode" db:"barcode"`
	ProductName   string    `json:"productName" db:"product_name"`
	PhotoURL      string    `json:"photoUrl" db:"photo_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// ImportLog 导入日志
type ImportLog struct {
	ID            int64      `json:"id" db:"id"`
	Owner         string     `json:"owner" db:"owner"`
	Filename      string     `json:"filename" db:"filename"`
	FileSize      int64      `json:"fileSize" db:"file_size"`
	Status        string     `json:"status" db:"status"`
	TotalSheets   int        `json:"totalSheets" db:"total_sheets"`
	SkippedSheets int        `json:"skippedSheets" db:"skipped_sheets"`
	TotalProducts int        `json:"totalProducts" db:"total_products"`
	ErrorMessage  string     `json:"errorMessage" db:"error_message"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	CompletedAt   *time.Time `json:"completedAt" db:"completed_at"`
}
