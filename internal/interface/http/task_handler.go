package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	"github.com/oksasatya/task-manager-api/pkg/patch"
	"github.com/oksasatya/task-manager-api/pkg/response"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

// taskResponse is the wire shape of a task. The status travels as its
// slug and labels as a flat id list.
type taskResponse struct {
	ID           int64   `json:"id"`
	Index        *int    `json:"index,omitempty"`
	Title        string  `json:"title"`
	Content      string  `json:"content,omitempty"`
	Status       string  `json:"status"`
	AssigneeID   *int64  `json:"assigneeId,omitempty"`
	TaskLabelIDs []int64 `json:"taskLabelIds"`
	CreatedAt    string  `json:"createdAt"`
}

func toTaskResponse(t *entity.Task) taskResponse {
	labelIDs := t.LabelIDs
	if labelIDs == nil {
		labelIDs = []int64{}
	}
	return taskResponse{
		ID:           t.ID,
		Index:        t.Index,
		Title:        t.Name,
		Content:      t.Description,
		Status:       t.StatusSlug,
		AssigneeID:   t.AssigneeID,
		TaskLabelIDs: labelIDs,
		CreatedAt:    t.CreatedAt.Format(dateLayout),
	}
}

type taskCreateRequest struct {
	Index        *int    `json:"index"`
	Title        string  `json:"title" binding:"required,min=1"`
	Content      string  `json:"content"`
	Status       string  `json:"status" binding:"required"`
	AssigneeID   *int64  `json:"assigneeId"`
	TaskLabelIDs []int64 `json:"taskLabelIds"`
}

// taskUpdateRequest carries tri-state fields: an absent key leaves the
// attribute alone, an explicit null clears it (or is rejected when the
// attribute is mandatory), and a value replaces it. taskLabelIds always
// replaces the whole set.
type taskUpdateRequest struct {
	Index        patch.Field[int]     `json:"index"`
	Title        patch.Field[string]  `json:"title"`
	Content      patch.Field[string]  `json:"content"`
	Status       patch.Field[string]  `json:"status"`
	AssigneeID   patch.Field[int64]   `json:"assigneeId"`
	TaskLabelIDs patch.Field[[]int64] `json:"taskLabelIds"`
}

type taskListQuery struct {
	TitleCont  string `form:"titleCont"`
	AssigneeID *int64 `form:"assigneeId"`
	Status     string `form:"status"`
	LabelID    *int64 `form:"labelId"`
	Page       int    `form:"page,default=1"`
}

func (h *TaskHandler) Index(c *gin.Context) {
	var q taskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	f := query.TaskFilter{
		TitleCont:  q.TitleCont,
		AssigneeID: q.AssigneeID,
		Status:     q.Status,
		LabelID:    q.LabelID,
	}
	tasks, total, err := h.Svc.List(f, query.Page{Number: q.Page})
	if err != nil {
		renderError(c, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.Success(c, http.StatusOK, out, "tasks", gin.H{"total": total})
}

func (h *TaskHandler) Show(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(id)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskResponse(t), "task", nil)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), application.TaskCreateInput{
		Index:      req.Index,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		AssigneeID: req.AssigneeID,
		LabelIDs:   req.TaskLabelIDs,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskResponse(t), "task created", nil)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), id, application.TaskUpdateInput{
		Index:      req.Index,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		AssigneeID: req.AssigneeID,
		LabelIDs:   req.TaskLabelIDs,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskResponse(t), "task updated", nil)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search proxies a full-text query to the search index.
func (h *TaskHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing q parameter", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("task search failed")
		}
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
