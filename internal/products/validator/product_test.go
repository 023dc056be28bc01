package validator

import (
	"testing"

	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	v := NewProductValidator(logger.Discard())

	valid := func() *model.Product {
		return &model.Product{
			Name:        "Training Tee",
			Description: "Cotton",
			Price:       20,
			Category:    "Men",
			SubCategory: "Topwear",
			Sizes:       []string{"S", "M"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *model.Product)
		wantErr bool
	}{
		{"valid", func(p *model.Product) {}, false},
		{"no sizes", func(p *model.Product) { p.Sizes = nil }, false},
		{"negative price", func(p *model.Product) { p.Price = -1 }, true},
		{"empty size", func(p *model.Product) { p.Sizes = []string{""} }, true},
		{"missing sub category", func(p *model.Product) { p.SubCategory = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := v.Validate(p)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
