package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/apperr"
	"taskmanager/internal/services"
)

type SubTaskHandler struct {
	service services.SubTaskService
}

func NewSubTaskHandler(service services.SubTaskService) *SubTaskHandler {
	return &SubTaskHandler{service: service}
}

// @Summary      List subtasks
// @Tags         SubTasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.SubTask
// @Failure      401  {object}  map[string]string
// @Router       /subtasks/ [get]
func (h *SubTaskHandler) List(c *gin.Context) {
	subtasks, err := h.service.List(c.Request.Context())
	if err != nil {
		log.Printf("[subtask][list][err] %v", err)
		apperr.Abort(c, err)
		return
	}
	log.Printf("[subtask][list][ok] count=%d", len(subtasks))
	c.JSON(http.StatusOK, subtasks)
}

// @Summary      Create a subtask
// @Tags         SubTasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subtask  body      services.SubTaskInput  true  "Subtask fields"
// @Success      201      {object}  models.SubTask
// @Failure      400      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Router       /subtasks/ [post]
func (h *SubTaskHandler) Create(c *gin.Context) {
	userID := caller(c).UserID
	log.Printf("[subtask][create] call by userID=%d", userID)

	var req services.SubTaskInput
	if err := bindJSON(c, &req); err != nil {
		log.Printf("[subtask][create][bind][err] %v", err)
		apperr.Abort(c, err)
		return
	}
	st, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		log.Printf("[subtask][create][err] %v", err)
		apperr.Abort(c, err)
		return
	}
	log.Printf("[subtask][create][ok] id=%d title=%q", st.ID, st.Title)
	c.JSON(http.StatusCreated, st)
}

// @Summary      Get a subtask
// @Tags         SubTasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Subtask ID"
// @Success      200  {object}  models.SubTask
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /subtasks/{id} [get]
func (h *SubTaskHandler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		log.Printf("[subtask][getByID][404] id_param=%s", c.Param("id"))
		apperr.Abort(c, err)
		return
	}
	st, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[subtask][getByID][err] id=%d: %v", id, err)
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Replace a subtask
// @Tags         SubTasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                    true  "Subtask ID"
// @Param        subtask  body      services.SubTaskInput  true  "All subtask fields"
// @Success      200      {object}  models.SubTask
// @Failure      400      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /subtasks/{id} [put]
func (h *SubTaskHandler) Update(c *gin.Context) {
	userID := caller(c).UserID
	log.Printf("[subtask][update] call by userID=%d id_param=%s", userID, c.Param("id"))

	id, err := parseID(c)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	var req services.SubTaskInput
	if err := bindJSON(c, &req); err != nil {
		log.Printf("[subtask][update][bind][err] %v", err)
		apperr.Abort(c, err)
		return
	}
	st, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		log.Printf("[subtask][update][err] id=%d: %v", id, err)
		apperr.Abort(c, err)
		return
	}
	log.Printf("[subtask][update][ok] id=%d", id)
	c.JSON(http.StatusOK, st)
}

// @Summary      Delete a subtask
// @Tags         SubTasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Subtask ID"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /subtasks/{id} [delete]
func (h *SubTaskHandler) Delete(c *gin.Context) {
	userID := caller(c).UserID
	log.Printf("[subtask][delete] call by userID=%d id_param=%s", userID, c.Param("id"))

	id, err := parseID(c)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[subtask][delete][err] id=%d: %v", id, err)
		apperr.Abort(c, err)
		return
	}
	log.Printf("[subtask][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}
