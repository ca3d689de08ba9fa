package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/interpreteya/booking-service/internal/api/dto"
	"github.com/interpreteya/booking-service/internal/service"
)

// InterpretersHandler serves the public interpreter directory.
type InterpretersHandler struct {
	accounts *service.AccountService
	ratings  *service.RatingService
}

// NewInterpretersHandler constructs handler.
func NewInterpretersHandler(accountService *service.AccountService, ratingService *service.RatingService) *InterpretersHandler {
	return &InterpretersHandler{accounts: accountService, ratings: ratingService}
}

// List GET /interpreters. Only approved, unblocked interpreters appear.
func (h *InterpretersHandler) List(c *fiber.Ctx) error {
	sortBy := service.InterpreterSort(c.Query("sort", string(service.SortByRating)))
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	interpreters, err := h.accounts.ListInterpreters(c.Context(), c.Query("name"), sortBy, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.InterpreterResponse, 0, len(interpreters))
	for i := range interpreters {
		items = append(items, dto.InterpreterView(&interpreters[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Ratings GET /interpreters/:id/ratings.
func (h *InterpretersHandler) Ratings(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 50)
	ratings, err := h.ratings.ListForInterpreter(c.Context(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	items := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		items = append(items, dto.RatingView(&ratings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
