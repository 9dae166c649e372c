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

type TaskStatusHandler struct {
	Svc    *application.TaskStatusService
	Logger *logrus.Logger
}

func NewTaskStatusHandler(svc *application.TaskStatusService, logger *logrus.Logger) *TaskStatusHandler {
	return &TaskStatusHandler{Svc: svc, Logger: logger}
}

type taskStatusResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt"`
}

func toTaskStatusResponse(st *entity.TaskStatus) taskStatusResponse {
	return taskStatusResponse{
		ID:        st.ID,
		Name:      st.Name,
		Slug:      st.Slug,
		CreatedAt: st.CreatedAt.Format(dateLayout),
	}
}

type taskStatusCreateRequest struct {
	Name string `json:"name" binding:"required,min=1"`
	Slug string `json:"slug" binding:"required,min=1"`
}

type taskStatusUpdateRequest struct {
	Name patch.Field[string] `json:"name"`
	Slug patch.Field[string] `json:"slug"`
}

func (h *TaskStatusHandler) Index(c *gin.Context) {
	statuses, err := h.Svc.List()
	if err != nil {
		renderError(c, err)
		return
	}
	out := make([]taskStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toTaskStatusResponse(st))
	}
	c.Header("X-Total-Count", strconv.Itoa(len(out)))
	response.Success(c, http.StatusOK, out, "task statuses", gin.H{"total": len(out)})
}

func (h *TaskStatusHandler) Show(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.Svc.Get(id)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskStatusResponse(st), "task status", nil)
}

func (h *TaskStatusHandler) Create(c *gin.Context) {
	var req taskStatusCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Create(application.TaskStatusCreateInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskStatusResponse(st), "task status created", nil)
}

func (h *TaskStatusHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req taskStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Update(id, application.TaskStatusUpdateInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskStatusResponse(st), "task status updated", nil)
}

func (h *TaskStatusHandler) Delete(c *gin.Context) {
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
