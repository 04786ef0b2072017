package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/urgency"
)

type createRequest struct {
	Title    string `json:"title"`
	DueDate  string `json:"dueDate"`
	Priority string `json:"priority"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type listResponse struct {
	Today      string      `json:"today"`
	Tasks      []todo.View `json:"tasks"`
	Active     []todo.View `json:"active"`
	Completed  []todo.View `json:"completed"`
	Stats      todo.Stats  `json:"stats"`
	Submitting bool        `json:"submitting"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
		"tasks":   s.store.Len(),
		"clients": s.hub.Len(),
		"uptime":  s.store.Now().Sub(s.started).String(),
	})
}

func (s *Server) listTasks(c *gin.Context) {
	today := urgency.Today(s.store.Now())
	tasks := s.store.Tasks()
	stats := todo.Summarize(tasks)

	if q := c.Query("urgency"); q != "" {
		min, err := urgency.ParseSeverity(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "urgency"})
			return
		}
		tasks = todo.FilterByUrgency(tasks, today, min)
	}

	active, completed := todo.Partition(tasks)
	c.JSON(http.StatusOK, listResponse{
		Today:      today.String(),
		Tasks:      todo.Views(tasks, today),
		Active:     todo.Views(active, today),
		Completed:  todo.Views(completed, today),
		Stats:      stats,
		Submitting: s.store.Submitting(),
	})
}

func (s *Server) createTask(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	due, err := urgency.ParseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "Invalid due date", Field: "dueDate"})
		return
	}

	task, err := s.store.Create(c.Request.Context(), todo.Draft{
		Title:    req.Title,
		Due:      due,
		Priority: todo.Priority(req.Priority),
	})
	if err != nil {
		s.writeCreateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo.View{Task: task, Urgency: task.Urgency(urgency.Today(s.store.Now()))})
}

func (s *Server) writeCreateError(c *gin.Context, err error) {
	var ve *todo.ValidationError
	var se *todo.SubmissionError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: ve.UserMessage(), Field: ve.Path})
	case errors.Is(err, todo.ErrCreateInFlight):
		c.JSON(http.StatusConflict, errorResponse{Error: todo.UserMessage(err)})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusGatewayTimeout, errorResponse{Error: todo.UserMessage(err)})
	case errors.As(err, &se):
		c.JSON(http.StatusBadGateway, errorResponse{Error: se.UserMessage()})
	default:
		s.logger.Error("Create task", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *Server) toggleTask(c *gin.Context) {
	s.mutate(c, s.store.Toggle)
}

func (s *Server) deleteTask(c *gin.Context) {
	s.mutate(c, s.store.Delete)
}

func (s *Server) mutate(c *gin.Context, op func(int) (todo.Task, error)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id", Field: "id"})
		return
	}
	task, err := op(id)
	if errors.Is(err, todo.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, todo.View{Task: task, Urgency: task.Urgency(urgency.Today(s.store.Now()))})
}

func (s *Server) classify(c *gin.Context) {
	due, err := urgency.ParseDate(c.Query("due"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "due"})
		return
	}
	today := urgency.Today(s.store.Now())
	c.JSON(http.StatusOK, gin.H{
		"today":   today.String(),
		"urgency": urgency.Classify(due, today),
	})
}

func (s *Server) currentToast(c *gin.Context) {
	if s.toast == nil {
		c.Status(http.StatusNoContent)
		return
	}
	n, ok := s.toast.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *Server) dismissToast(c *gin.Context) {
	if s.toast != nil {
		s.toast.Dismiss()
	}
	c.Status(http.StatusNoContent)
}

// stream upgrades to a websocket and pushes notifications. The client is
// registered before the visible toast is queued, so nothing broadcast in
// between is lost; a repeat is recognisable by its id.
func (s *Server) stream(c *gin.Context) {
	up := upgrader(s.origin)
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "err", err)
		return
	}

	cl := &client{hub: s.hub, conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.hub.register(cl) {
		_ = conn.Close()
		return
	}
	if s.toast != nil {
		if n, id, ok := s.toast.Showing(); ok {
			s.hub.deliver(cl, Message{Type: "notification", ID: id, Notification: n})
		}
	}
	s.logger.Debug("Notification client connected", "remote", c.Request.RemoteAddr)
	cl.run()
}

// ToastSink returns the sink a store should notify. Notifications go to the
// toast, and the hub broadcasts each show and dismiss with the toast's id.
func ToastSink(hub *Hub) (notify.Sink, *notify.Toast) {
	toast := notify.NewToast(func(n notify.Notification, id uint64, visible bool) {
		if visible {
			hub.Show(n, id)
			return
		}
		hub.Dismiss(n, id)
	})
	return toast, toast
}
