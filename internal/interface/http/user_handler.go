package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/query"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/patch"
	"github.com/oksasatya/task-manager-api/pkg/response"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

const dateLayout = "2006-01-02"

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func principalFrom(c *gin.Context) application.Principal {
	return application.Principal{
		ID:   c.GetInt64(middleware.CtxUserIDKey),
		Role: entity.Role(c.GetString(middleware.CtxUserRoleKey)),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format(dateLayout),
	}
}

type userCreateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password" binding:"required,min=3"`
}

// userUpdateRequest fields are tri-state: absent keys stay untouched,
// explicit nulls clear (or get rejected for required fields).
type userUpdateRequest struct {
	Email     patch.Field[string] `json:"email"`
	FirstName patch.Field[string] `json:"firstName"`
	LastName  patch.Field[string] `json:"lastName"`
	Password  patch.Field[string] `json:"password"`
}

type userListQuery struct {
	ID            *int64 `form:"id"`
	Email         string `form:"email"`
	EmailCont     string `form:"emailCont"`
	FirstName     string `form:"firstName"`
	FirstNameCont string `form:"firstNameCont"`
	LastName      string `form:"lastName"`
	LastNameCont  string `form:"lastNameCont"`
	CreatedAt     string `form:"createdAt"`
	CreatedAtGt   string `form:"createdAtGt"`
	CreatedAtLt   string `form:"createdAtLt"`
	Page          int    `form:"page,default=1"`
	PerPage       int    `form:"perPage,default=50"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (q userListQuery) filter() (query.UserFilter, error) {
	createdAt, err := parseDate(q.CreatedAt)
	if err != nil {
		return query.UserFilter{}, err
	}
	createdAtGt, err := parseDate(q.CreatedAtGt)
	if err != nil {
		return query.UserFilter{}, err
	}
	createdAtLt, err := parseDate(q.CreatedAtLt)
	if err != nil {
		return query.UserFilter{}, err
	}
	return query.UserFilter{
		ID:            q.ID,
		Email:         q.Email,
		EmailCont:     q.EmailCont,
		FirstName:     q.FirstName,
		FirstNameCont: q.FirstNameCont,
		LastName:      q.LastName,
		LastNameCont:  q.LastNameCont,
		CreatedAt:     createdAt,
		CreatedAtGt:   createdAtGt,
		CreatedAtLt:   createdAtLt,
	}, nil
}

// Index lists users; the total match count travels out-of-band in the
// X-Total-Count header so clients can paginate without a count query.
func (h *UserHandler) Index(c *gin.Context) {
	var q userListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	f, err := q.filter()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid date filter", err.Error())
		return
	}
	users, total, err := h.Svc.List(f, query.Page{Number: q.Page, Size: q.PerPage}.Normalize(50))
	if err != nil {
		renderError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.Success(c, http.StatusOK, out, "users", gin.H{"total": total})
}

func (h *UserHandler) Show(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Get(id)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(application.UserCreateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(principalFrom(c), id, application.UserUpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(principalFrom(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar accepts a multipart file field named "avatar".
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable avatar file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), principalFrom(c), id, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "avatar updated", nil)
}
