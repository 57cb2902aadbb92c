package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a category. Titles are unique per user and type so
// the grouping view stays unambiguous.
func (s *categoryService) CreateCategory(userID, title string, categoryType models.CategoryType, icon, metaData string, parentName *string) (*models.Category, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category title is required")
	}

	var count int64
	s.db.Model(&models.Category{}).
		Where("user_id = ? AND title = ? AND type = ?", userID, title, categoryType).
		Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateTitle
	}

	category := &models.Category{
		UserID:     userID,
		Title:      title,
		MetaData:   metaData,
		Icon:       icon,
		Type:       categoryType,
		ParentName: parentName,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetUserCategories retrieves the user's categories with pagination.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Normalize()

	var totalItems int64
	if err := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("type ASC, title ASC").
		Scopes(pagination.Paginate(page)).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &response, nil
}

// GetCategoryByID retrieves a single category, scoped to the owning user.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's mutable fields. Type and debt metadata
// are fixed at creation; retyping a category would corrupt reconciliation.
func (s *categoryService) UpdateCategory(userID, categoryID, title, icon string, parentName *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != "" && title != category.Title {
		var count int64
		s.db.Model(&models.Category{}).
			Where("user_id = ? AND title = ? AND type = ? AND id != ?", userID, title, category.Type, categoryID).
			Count(&count)
		if count > 0 {
			return nil, apperrors.ErrDuplicateTitle
		}
		updates["title"] = title
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if parentName != nil {
		updates["parent_name"] = *parentName
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetCategoryByID(userID, categoryID)
}

// DeleteCategory removes a category that no transaction or budget references.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	var budgetCount int64
	if err := s.db.Model(&models.Budget{}).Where("category_id = ?", categoryID).Count(&budgetCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgetCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCategoryGroups returns the user's categories arranged into parent/child
// display groups, keyed by category type.
func (s *categoryService) GetCategoryGroups(userID string) (map[models.CategoryType][]ledger.CategoryGroup, error) {
	categories, err := s.loadAll(userID)
	if err != nil {
		return nil, err
	}

	groups := make(map[models.CategoryType][]ledger.CategoryGroup)
	for _, categoryType := range []models.CategoryType{
		models.CategoryTypeIncome,
		models.CategoryTypeExpense,
		models.CategoryTypeDebtLoan,
	} {
		if g := ledger.GroupCategoriesByType(categories, categoryType); len(g) > 0 {
			groups[categoryType] = g
		}
	}
	return groups, nil
}

// GetCategoryGroupsByType returns the display groups for one category type.
func (s *categoryService) GetCategoryGroupsByType(userID string, categoryType models.CategoryType) ([]ledger.CategoryGroup, error) {
	categories, err := s.loadAll(userID)
	if err != nil {
		return nil, err
	}
	return ledger.GroupCategoriesByType(categories, categoryType), nil
}

func (s *categoryService) loadAll(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}
