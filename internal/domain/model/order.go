package model

import "time"

// Orderは作成後イミュータブル。更新・削除の操作は存在しない。
type Order struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
