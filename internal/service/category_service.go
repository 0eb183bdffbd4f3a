package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/repository"
	"context"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		items = append(items, &dto.CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return items, nil
}
