package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/apperr"
	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	pages   Pagination
}

func NewTaskHandler(service services.TaskService, pages Pagination) *TaskHandler {
	return &TaskHandler{service: service, pages: pages}
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      services.TaskInput  true  "Task fields"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	who := caller(c)
	log.Printf("[task][create] call by userID=%d role=%d", who.UserID, who.RoleID)

	var req services.TaskInput
	if err := bindJSON(c, &req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		apperr.Abort(c, err)
		return
	}

	task, err := h.service.Create(c.Request.Context(), int64(who.UserID), req)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		apperr.Abort(c, err)
		return
	}
	log.Printf("[task][create][ok] id=%d status=%q title=%q", task.ID, task.Status, task.Title)
	c.JSON(http.StatusCreated, task)
}

// @Summary      List tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Exact status"
// @Param        deadline   query     string  false  "Exact deadline (RFC 3339)"
// @Param        ordering   query     string  false  "deadline or -deadline"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  models.TaskPage
// @Failure      401        {object}  map[string]string
// @Router       /tasks/ [get]
func (h *TaskHandler) List(c *gin.Context) {
	who := caller(c)
	log.Printf("[task][list] call by userID=%d role=%d q=%v", who.UserID, who.RoleID, c.Request.URL.RawQuery)

	page, size := h.pages.parse(c)
	q := services.TaskListQuery{
		Status:   c.Query("status"),
		Deadline: c.Query("deadline"),
		Ordering: c.Query("ordering"),
		Limit:    size,
		Offset:   (page - 1) * size,
	}

	tasks, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		apperr.Abort(c, err)
		return
	}

	resp := models.TaskPage{
		Count:    total,
		Next:     pageLink(c, page+1, q.Offset+len(tasks) < total),
		Previous: pageLink(c, page-1, page > 1),
		Results:  tasks,
	}
	log.Printf("[task][list][ok] page=%d size=%d count=%d total=%d", page, size, len(tasks), total)
	c.JSON(http.StatusOK, resp)
}
