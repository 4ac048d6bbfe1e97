package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCategoryUC(categories *mockCategoryRepo) *usecase.CategoryUsecase {
	return usecase.NewCategoryUsecase(categories, testLogger())
}

func TestListCategories(t *testing.T) {
	categories := new(mockCategoryRepo)
	uc := newCategoryUC(categories)

	categories.On("List", mock.Anything).Return([]model.Category{
		{ID: "c1", Name: "Chocolate"},
		{ID: "c2", Name: "Gummy"},
	}, nil)

	got, err := uc.ListCategories(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCreateCategory_Success(t *testing.T) {
	categories := new(mockCategoryRepo)
	uc := newCategoryUC(categories)

	categories.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.ID != "" && c.Name == "Chocolate"
	})).Return(model.Category{ID: "c1", Name: "Chocolate"}, nil)

	c, err := uc.CreateCategory(context.Background(), adminIdent, " Chocolate ")
	assert.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	categories.AssertExpectations(t)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	categories := new(mockCategoryRepo)
	uc := newCategoryUC(categories)

	categories.On("Create", mock.Anything, mock.Anything).Return(model.Category{}, repo.ErrDuplicate)

	_, err := uc.CreateCategory(context.Background(), adminIdent, "Chocolate")
	assertHTTPError(t, err, http.StatusConflict, "category already exists")
}

func TestCreateCategory_Validation(t *testing.T) {
	uc := newCategoryUC(new(mockCategoryRepo))
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, adminIdent, "  ")
	assertHTTPError(t, err, http.StatusBadRequest, "name required")

	_, err = uc.CreateCategory(ctx, customerIdent, "Chocolate")
	assertHTTPError(t, err, http.StatusForbidden, "admin access required")
}

// 商品が参照中のカテゴリは消せない。
// 判定と削除はrepoの1呼び出しなので、間に商品作成が割り込む余地はない。
func TestDeleteCategory_InUse(t *testing.T) {
	categories := new(mockCategoryRepo)
	uc := newCategoryUC(categories)

	categories.On("Delete", mock.Anything, "c1").Return(repo.ErrConflict)

	err := uc.DeleteCategory(context.Background(), adminIdent, "c1")
	assertHTTPError(t, err, http.StatusConflict, "category in use")
	categories.AssertNumberOfCalls(t, "Delete", 1)
}

func TestDeleteCategory_Success(t *testing.T) {
	categories := new(mockCategoryRepo)
	uc := newCategoryUC(categories)

	categories.On("Delete", mock.Anything, "c1").Return(nil)

	assert.NoError(t, uc.DeleteCategory(context.Background(), adminIdent, "c1"))
	categories.AssertExpectations(t)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	categories := new(mockCategoryRepo)
	uc := newCategoryUC(categories)

	categories.On("Delete", mock.Anything, "missing").Return(repo.ErrNotFound)

	err := uc.DeleteCategory(context.Background(), adminIdent, "missing")
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestDeleteCategory_Forbidden(t *testing.T) {
	uc := newCategoryUC(new(mockCategoryRepo))

	err := uc.DeleteCategory(context.Background(), customerIdent, "c1")
	assertHTTPError(t, err, http.StatusForbidden, "admin access required")
}
