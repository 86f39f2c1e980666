package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/domain"
	productsvc "catalog-service/internal/service/product"
)

type productHandler struct {
	svc    productService
	logger *log.Logger
}

func (h *productHandler) create(c *gin.Context) {
	var in productsvc.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *productHandler) list(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), productsvc.ListQuery{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Family:   c.Query("family"),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *productHandler) get(c *gin.Context) {
	p, found, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !found {
		writeError(c, h.logger, fmt.Errorf("product %s: %w", c.Param("id"), domain.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) update(c *gin.Context) {
	var in productsvc.UpdateInput
	// an empty body is an empty update
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, h.logger, bindError(err))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// queryInt returns 0 for missing or non-numeric values; the service applies defaults.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
