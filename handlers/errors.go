package handlers

import (
	"net/http"

	"investplan/services/settlement"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(kind settlement.Kind) int {
	switch kind {
	case settlement.KindInvalidRequest:
		return http.StatusBadRequest
	case settlement.KindUnauthorized:
		return http.StatusUnauthorized
	case settlement.KindNotFound:
		return http.StatusNotFound
	case settlement.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError maps a settlement error onto {error} with the matching status.
func writeError(c *gin.Context, err error) {
	status := statusFor(settlement.KindOf(err))
	if status == http.StatusInternalServerError {
		getLogger(c).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	utils.JSONError(c, status, settlement.MessageOf(err))
}
