package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/search"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service search.SearchUseCase
}

func NewAirportHandler(service search.SearchUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(g Groups) {
	g.Public.GET("/airports", h.suggest)
}

func (h *AirportHandler) suggest(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleError(c, domain.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, h.service.Suggest(c.Query("q"), limit))
}
