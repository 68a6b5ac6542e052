package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	appbudget "github.com/procurement/budget/internal/application/budget"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/procurement/budget/internal/interfaces/http/dto"
)

// FSWorkflow is the financial source workflow the handler drives
type FSWorkflow interface {
	CreateFS(ctx context.Context, cpID, owner string, date time.Time, req appbudget.CreateFSRequest) (*appbudget.FSResponse, error)
	UpdateFS(ctx context.Context, cpID, ocID, token, owner string, req appbudget.UpdateFSRequest) (*appbudget.FSResponse, error)
}

// FSHandler handles financial source HTTP requests
type FSHandler struct {
	BaseHandler
	workflow FSWorkflow
}

// NewFSHandler creates a new FSHandler
func NewFSHandler(workflow FSWorkflow) *FSHandler {
	return &FSHandler{workflow: workflow}
}

// Create handles POST /budget/fs?cpid=&owner=&date=
func (h *FSHandler) Create(c *gin.Context) {
	cpID, err := requireQuery(c, "cpid")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	owner, err := requireQuery(c, "owner")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	rawDate, err := requireQuery(c, "date")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	date, err := valueobject.ParseDateTime(rawDate)
	if err != nil {
		h.HandleError(c, &dto.ParamError{Name: "date", Reason: "must be yyyy-MM-ddTHH:mm:ssZ"})
		return
	}

	var req appbudget.CreateFSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.workflow.CreateFS(c.Request.Context(), cpID, owner, date.Time(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /budget/fs/:ocid?cpid=&token=&owner=
func (h *FSHandler) Update(c *gin.Context) {
	ocID := c.Param("ocid")
	cpID, err := requireQuery(c, "cpid")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	token, err := requireQuery(c, "token")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	owner, err := requireQuery(c, "owner")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appbudget.UpdateFSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.workflow.UpdateFS(c.Request.Context(), cpID, ocID, token, owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
