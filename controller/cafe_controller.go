package controller

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"workcafe/metrics"
	"workcafe/model"
	"workcafe/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const msgDuplicateCafe = "A cafe with that name already exists."

type CafeController struct {
	Renderer
	Cafes   *repository.CafeRepository
	Metrics *metrics.Metrics
}

func (h *CafeController) Home(c *gin.Context) {
	cafes, err := h.Cafes.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	h.page(c, http.StatusOK, "index", gin.H{"cafes": cafes})
}

func (h *CafeController) ViewCafe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.page(c, http.StatusNotFound, "cafe", gin.H{"cafe": nil})
		return
	}

	cafe, err := h.Cafes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.page(c, http.StatusNotFound, "cafe", gin.H{"cafe": nil})
			return
		}
		serverError(c, err)
		return
	}
	h.page(c, http.StatusOK, "cafe", gin.H{"cafe": cafe})
}

func (h *CafeController) AddCafe(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.cafeForm(c, http.StatusOK, model.CafeFields{}, nil, gin.H{})
		return
	}

	fields, err := bindCafeFields(c)
	if err != nil {
		h.cafeForm(c, http.StatusBadRequest, fields, err, gin.H{})
		return
	}

	cafe := &model.Cafe{CafeFields: fields}
	err = h.Cafes.Create(c.Request.Context(), cafe)
	h.Metrics.CafeMutation("create", err)
	if err != nil {
		h.cafeWriteFailed(c, fields, err, gin.H{})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *CafeController) EditCafe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c, "Cafe not found")
		return
	}

	cafe, err := h.Cafes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.notFound(c, "Cafe not found")
			return
		}
		serverError(c, err)
		return
	}
	extra := gin.H{"is_edit": true, "cafe": cafe}

	if c.Request.Method != http.MethodPost {
		h.cafeForm(c, http.StatusOK, cafe.CafeFields, nil, extra)
		return
	}

	fields, err := bindCafeFields(c)
	if err != nil {
		h.cafeForm(c, http.StatusBadRequest, fields, err, extra)
		return
	}

	_, err = h.Cafes.Update(c.Request.Context(), id, fields)
	h.Metrics.CafeMutation("update", err)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.notFound(c, "Cafe not found")
			return
		}
		h.cafeWriteFailed(c, fields, err, extra)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/view-cafe/%d", id))
}

// DeleteCafe removes the entry at once; there is no confirmation step.
func (h *CafeController) DeleteCafe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c, "Cafe not found")
		return
	}

	err := h.Cafes.Delete(c.Request.Context(), id)
	h.Metrics.CafeMutation("delete", err)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.notFound(c, "Cafe not found")
			return
		}
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *CafeController) cafeForm(c *gin.Context, status int, form model.CafeFields, err error, extra gin.H) {
	data := gin.H{"form": form, "is_edit": false}
	for k, v := range extra {
		data[k] = v
	}
	if err != nil {
		data["errors"] = fieldErrors(err)
	}
	h.page(c, status, "add_cafe", data)
}

func (h *CafeController) cafeWriteFailed(c *gin.Context, form model.CafeFields, err error, extra gin.H) {
	var verr *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		extra["message"] = msgDuplicateCafe
		h.cafeForm(c, http.StatusConflict, form, nil, extra)
	case errors.As(err, &verr):
		h.cafeForm(c, http.StatusBadRequest, form, verr, extra)
	default:
		serverError(c, err)
	}
}

// bindCafeFields reads the cafe form. Amenity checkboxes are read even
// when other fields fail so the form can be shown again as submitted.
func bindCafeFields(c *gin.Context) (model.CafeFields, error) {
	var fields model.CafeFields
	err := c.ShouldBind(&fields)
	if c.ContentType() != binding.MIMEJSON {
		readAmenities(c, &fields)
	}
	clearNonFinite(&fields)
	return fields, err
}

// clearNonFinite blanks a rejected NaN or infinite price so the form can
// still be encoded when it is shown again.
func clearNonFinite(fields *model.CafeFields) {
	if math.IsNaN(fields.CoffeePrice) || math.IsInf(fields.CoffeePrice, 0) {
		fields.CoffeePrice = 0
	}
}

func readAmenities(c *gin.Context, fields *model.CafeFields) {
	fields.HasSockets = checked(c, "has_sockets")
	fields.HasToilet = checked(c, "has_toilet")
	fields.HasWifi = checked(c, "has_wifi")
	fields.CanTakeCalls = checked(c, "can_take_calls")
}
