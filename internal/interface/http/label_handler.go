package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/pkg/patch"
	"github.com/oksasatya/task-manager-api/pkg/response"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

type LabelHandler struct {
	Svc    *application.LabelService
	Logger *logrus.Logger
}

func NewLabelHandler(svc *application.LabelService, logger *logrus.Logger) *LabelHandler {
	return &LabelHandler{Svc: svc, Logger: logger}
}

type labelResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func toLabelResponse(l *entity.Label) labelResponse {
	return labelResponse{
		ID:        l.ID,
		Name:      l.Name,
		CreatedAt: l.CreatedAt.Format(dateLayout),
	}
}

type labelCreateRequest struct {
	Name string `json:"name" binding:"required,min=3,max=1000"`
}

type labelUpdateRequest struct {
	Name patch.Field[string] `json:"name"`
}

func (h *LabelHandler) Index(c *gin.Context) {
	labels, err := h.Svc.List()
	if err != nil {
		renderError(c, err)
		return
	}
	out := make([]labelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, toLabelResponse(l))
	}
	c.Header("X-Total-Count", strconv.Itoa(len(out)))
	response.Success(c, http.StatusOK, out, "labels", gin.H{"total": len(out)})
}

func (h *LabelHandler) Show(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	l, err := h.Svc.Get(id)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toLabelResponse(l), "label", nil)
}

func (h *LabelHandler) Create(c *gin.Context) {
	var req labelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	l, err := h.Svc.Create(application.LabelCreateInput{Name: req.Name})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toLabelResponse(l), "label created", nil)
}

func (h *LabelHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req labelUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	l, err := h.Svc.Update(id, application.LabelUpdateInput{Name: req.Name})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toLabelResponse(l), "label updated", nil)
}

func (h *LabelHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
