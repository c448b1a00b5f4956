package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"visitas-store/internal/model"
)

// PhotoRequest 登记照片请求，编号/条码/名称至少提供一个
type PhotoRequest struct {
	ProductNumber string `json:"productNumber" validate:"required_without_all=Barcode ProductName"`
	Barcode       string `json:"barcode"`
	ProductName   string `json:"productName"`
	PhotoURL      string `json:"photoUrl" validate:"required,url"`
}

// FieldError 字段校验错误
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ListPhotos 获取用户登记的照片
// GET /api/catalogs/:owner/photos
func (h *Handler) ListPhotos(c *gin.Context) {
	photos, err := h.store.ListPhotos(c.Request.Context(), c.Param("owner"))
	if err != nil {
		h.storeError(c, "list photos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// UpsertPhoto 登记（或更新）商品照片
// POST /api/catalogs/:owner/photos
func (h *Handler) UpsertPhoto(c *gin.Context) {
	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
		return
	}
	req.ProductNumber = strings.TrimSpace(req.ProductNumber)
	req.Barcode = strings.TrimSpace(req.Barcode)
	req.ProductName = strings.TrimSpace(req.ProductName)
	req.PhotoURL = strings.TrimSpace(req.PhotoURL)

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fieldErrors(err)})
		return
	}

	saved, err := h.store.UpsertPhoto(c.Request.Context(), model.Photo{
		Owner:         c.Param("owner"),
		ProductNumber: req.ProductNumber,
		Barcode:       req.Barcode,
		ProductName:   req.ProductName,
		PhotoURL:      req.PhotoURL,
	})
	if err != nil {
		h.storeError(c, "upsert photo", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeletePhoto 删除照片
// DELETE /api/catalogs/:owner/photos/:id
func (h *Handler) DeletePhoto(c *gin.Context) {
	if err := h.store.DeletePhoto(c.Request.Context(), c.Param("owner"), c.Param("id")); err != nil {
		h.storeError(c, "delete photo", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// newValidator 校验错误中的字段名使用 json 标签
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
