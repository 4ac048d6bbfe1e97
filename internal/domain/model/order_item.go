package model

import "time"

// UnitPriceは購入時点のスナップショット。商品の現在価格とは独立。
type OrderItem struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID             string    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID           string    `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPrice           int64     `gorm:"not null" json:"unit_price"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	Product             *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
