package model

import "time"

// CatalogView 一次目录浏览（ProductNumber 为空表示浏览整个目录）
type CatalogView struct {
	ID            int64     `json:"id" db:"id"`
	Owner         string    `json:"owner" db:"owner"`
	ProductNumber string    `json:"productNumber" db:"product_number"`
	IPAddress     string    `json:"ipAddress" db:"ip_address"`
	UserAgent     string    `json:"userAgent" db:"user_agent"`
	Country       string    `json:"country" db:"country"`
	City          string    `json:"city" db:"city"`
	ViewedAt      time.Time `json:"viewedAt" db:"viewed_at"`
}

// ProductViews 单个商品的浏览次数
type ProductViews struct {
	ProductNumber string `json:"productNumber" db:"product_number"`
	ProductName   string `json:"productName" db:"product_name"`
	Views         int    `json:"views" db:"views"`
}

// DailyViews 按天汇总（UTC 日期）
type DailyViews struct {
	Date  string `json:"date" db:"day"`
	Views int    `json:"views" db:"views"`
}

// ViewStats 一段时间内的浏览统计
type ViewStats struct {
	Owner          string         `json:"owner"`
	Since          time.Time      `json:"since"`
	TotalViews     int            `json:"totalViews"`
	CatalogViews   int            `json:"catalogViews"`
	ProductViews   int            `json:"productViews"`
	UniqueVisitors int            `json:"uniqueVisitors"`
	TopProducts    []ProductViews `json:"topProducts"`
	ByDay          []DailyViews   `json:"byDay"`
}
