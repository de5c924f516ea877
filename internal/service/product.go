package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

type ProductService interface {
	Create(userID uint, in ProductInput) (model.Product, error)
	All() ([]model.Product, error)
	ByID(id uint) (model.Product, error)
	Update(id, userID uint, in ProductInput) (int64, error)
	Delete(id, userID uint) (int64, error)
}

type productService struct{ db *gorm.DB }

func NewProductService(db *gorm.DB) ProductService { return &productService{db: db} }

func (s *productService) Create(userID uint, in ProductInput) (model.Product, error) {
	p := model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		UserID:      &userID,
	}
	return p, s.db.Create(&p).Error
}

func (s *productService) All() ([]model.Product, error) {
	var ps []model.Product
	return ps, s.db.Order("id asc").Find(&ps).Error
}

func (s *productService) ByID(id uint) (model.Product, error) {
	var p model.Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, err
	}
	return p, nil
}

// Update touches only seller-owned rows; 0 affected rows covers both a
// missing product and someone else's product.
func (s *productService) Update(id, userID uint, in ProductInput) (int64, error) {
	res := s.db.Model(&model.Product{}).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        in.Name,
			"description": in.Description,
			"price":       in.Price,
			"stock":       in.Stock,
			"image_url":   in.ImageURL,
		})
	return res.RowsAffected, res.Error
}

func (s *productService) Delete(id, userID uint) (int64, error) {
	res := s.db.Scopes(ownedBy(userID)).Where("id = ?", id).Delete(&model.Product{})
	return res.RowsAffected, res.Error
}
