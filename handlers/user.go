package handlers

import (
	"errors"
	"net/http"

	"investplan/database"
	investmentRepo "investplan/database/repository/investment"
	userRepo "investplan/database/repository/user"
	"investplan/middleware"
	"investplan/models"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type UserHandler struct {
	Users       userRepo.UserRepository
	Investments investmentRepo.InvestmentRepository
}

func NewUserHandler(users userRepo.UserRepository, investments investmentRepo.InvestmentRepository) *UserHandler {
	return &UserHandler{Users: users, Investments: investments}
}

type profileResponse struct {
	ID          string              `json:"id"`
	Username    string              `json:"username"`
	Email       string              `json:"email,omitempty"`
	Role        string              `json:"role"`
	Balance     decimal.Decimal     `json:"balance"`
	Investments []models.Investment `json:"investments"`
}

// GetProfileHandler returns the authenticated user's server-side balance and plans.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()

	user, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if errors.Is(err, database.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		logger.Error("Failed to get user profile", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}

	investments, err := h.Investments.ListByUser(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to list investments", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Balance:     user.Balance,
		Investments: investments,
	})
}
