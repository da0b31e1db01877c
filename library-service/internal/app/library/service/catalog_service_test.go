package service

import (
	"context"
	"errors"
	"testing"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/repository"
	"booknest/library-service/internal/app/library/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateBook_Success(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	req := &entity.CreateBookRequest{
		Name:         "Dune",
		Author:       "Frank Herbert",
		Category:     entity.CategoryFiction,
		ISBN:         "978-0441172719",
		Stock:        3,
		Available:    true,
		RackLocation: "A-12",
	}

	bookRepo.On("Create", ctx, mock.AnythingOfType("*entity.Book")).Return(nil).Run(func(args mock.Arguments) {
		book := args.Get(1).(*entity.Book)
		book.ID = primitive.NewObjectID()
	})

	book, err := service.CreateBook(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, book)
	assert.Equal(t, "Dune", book.Name)
	assert.Equal(t, 3, book.Stock)
	assert.NotNil(t, book.Reviews)
}

func TestCreateBook_InvalidCategory(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	req := &entity.CreateBookRequest{
		Name:     "Dune",
		Author:   "Frank Herbert",
		Category: "Romance",
	}

	book, err := service.CreateBook(context.Background(), req)

	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestGetBook_CanDeleteFlags(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID()
	book := &entity.Book{
		ID: bookID,
		Reviews: []entity.Review{
			{ID: primitive.NewObjectID(), UserID: "user-123"},
			{ID: primitive.NewObjectID(), UserID: "other-user"},
		},
	}

	bookRepo.On("GetByID", ctx, bookID.Hex()).Return(book, nil)

	view, err := service.GetBook(ctx, bookID.Hex(), "user-123", false)

	assert.NoError(t, err)
	assert.True(t, view.Reviews[0].CanDelete)
	assert.False(t, view.Reviews[1].CanDelete)
}

func TestGetBook_AdminCanDeleteAll(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID()
	book := &entity.Book{
		ID: bookID,
		Reviews: []entity.Review{
			{ID: primitive.NewObjectID(), UserID: "user-1"},
			{ID: primitive.NewObjectID(), UserID: "user-2"},
		},
	}

	bookRepo.On("GetByID", ctx, bookID.Hex()).Return(book, nil)

	view, err := service.GetBook(ctx, bookID.Hex(), "admin-1", true)

	assert.NoError(t, err)
	assert.True(t, view.Reviews[0].CanDelete)
	assert.True(t, view.Reviews[1].CanDelete)
}

func TestGetBook_NotFound(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()

	bookRepo.On("GetByID", ctx, bookID).Return(nil, repository.ErrBookNotFound)

	view, err := service.GetBook(ctx, bookID, "user-123", false)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooks_Success(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	books := []entity.Book{
		{ID: primitive.NewObjectID(), Name: "Dune"},
		{ID: primitive.NewObjectID(), Name: "Foundation"},
	}

	bookRepo.On("List", ctx, "").Return(books, nil)

	result, err := service.ListBooks(ctx, "")

	assert.NoError(t, err)
	assert.Len(t, result.Books, 2)
	assert.Equal(t, 2, result.Total)
}

func TestListBooks_RepoError(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookRepo.On("List", ctx, "dune").Return(nil, errors.New("db error"))

	result, err := service.ListBooks(ctx, "dune")

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestUpdateBook_PartialUpdate(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID()
	existing := &entity.Book{
		ID:     bookID,
		Name:   "Dune",
		Author: "Frank Herbert",
		Stock:  3,
	}
	newStock := 7
	req := &entity.UpdateBookRequest{Stock: &newStock}

	bookRepo.On("GetByID", ctx, bookID.Hex()).Return(existing, nil)
	bookRepo.On("Update", ctx, mock.AnythingOfType("*entity.Book")).Return(nil)

	book, err := service.UpdateBook(ctx, bookID.Hex(), req)

	assert.NoError(t, err)
	assert.Equal(t, 7, book.Stock)
	assert.Equal(t, "Dune", book.Name)
}

func TestUpdateBook_InvalidCategory(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	badCategory := "Romance"
	req := &entity.UpdateBookRequest{Category: &badCategory}

	book, err := service.UpdateBook(context.Background(), primitive.NewObjectID().Hex(), req)

	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUpdateBook_NotFound(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()

	bookRepo.On("GetByID", ctx, bookID).Return(nil, repository.ErrBookNotFound)

	book, err := service.UpdateBook(ctx, bookID, &entity.UpdateBookRequest{})

	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook_Success(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()

	bookRepo.On("Delete", ctx, bookID).Return(nil)

	err := service.DeleteBook(ctx, bookID)

	assert.NoError(t, err)
}

func TestDeleteBook_NotFound(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	service := NewCatalogService(bookRepo)

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()

	bookRepo.On("Delete", ctx, bookID).Return(repository.ErrBookNotFound)

	err := service.DeleteBook(ctx, bookID)

	assert.ErrorIs(t, err, ErrBookNotFound)
}
