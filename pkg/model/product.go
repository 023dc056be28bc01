package model

import (
	"time"
)

type Product struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string    `json:"description" bson:"description" validate:"required,max=5000"`
	Price       float64   `json:"price" bson:"price" validate:"gt=0"`
	Images      []string  `json:"images" bson:"images"`
	Videos      []string  `json:"videos" bson:"videos"`
	Category    string    `json:"category" bson:"category" validate:"required,max=100"`
	SubCategory string    `json:"sub_category" bson:"sub_category" validate:"required,max=100"`
	Sizes       []string  `json:"sizes" bson:"sizes" validate:"omitempty,dive,min=1,max=20"`
	Bestseller  bool      `json:"bestseller" bson:"bestseller"`
	Discount    float64   `json:"discount" bson:"discount"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// ProductUpdate is a partial edit; nil fields keep their stored value.
type ProductUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Category    *string   `json:"category,omitempty"`
	SubCategory *string   `json:"sub_category,omitempty"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Videos      *[]string `json:"videos,omitempty"`
	Bestseller  *bool     `json:"bestseller,omitempty"`
	Discount    *float64  `json:"discount,omitempty"`
}

func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Category == nil && u.SubCategory == nil && u.Sizes == nil &&
		u.Images == nil && u.Videos == nil && u.Bestseller == nil && u.Discount == nil
}

const (
	ProductSortDate     = "date"
	ProductSortPrice    = "price"
	ProductSortDiscount = "discount"
)

type ProductFilter struct {
	Category    string
	SubCategory string
	OnDiscount  bool
	SortBy      string
	Ascending   bool
}

// DiscountedPrice applies Discount, which is a percentage in [0, 100].
func (p *Product) DiscountedPrice() float64 {
	return p.Price * (100 - p.Discount) / 100
}
