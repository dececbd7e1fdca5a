package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/pkg/pagination"
)

// getPagination reads page and per_page from the query string
func getPagination(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(pagination.DefaultPerPage)))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// sendPDF writes an inline PDF attachment
func sendPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
