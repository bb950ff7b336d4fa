package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 50
const maxPageSize = 100

// Page é o envelope de toda listagem paginada.
type Page struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// pageParams lê ?page= e ?size= com defaults sãos.
func pageParams(c *gin.Context) (page, size, offset int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.Query("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, (page - 1) * size
}

// paginateSlice corta uma fatia já carregada (usado pelo extrato, cuja soma
// corrente precisa da sequência completa antes do corte).
func paginateSlice[T any](items []T, page, size int) ([]T, int) {
	total := len(items)
	start := (page - 1) * size
	if start >= total {
		return []T{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], total
}
