package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmartell/clientia-api/internal/middleware"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Description Get a paginated list of project boards
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	projects, total, err := h.projectService.List(c.Request.Context(), middleware.GetCompanyID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ProjectResponse
	for _, p := range projects {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"projects": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Project
// @Description Get a project board with its columns and cards
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	project, err := h.projectService.FindByIDWithBoard(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tablero no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Create Project
// @Description Create a new board with the default columns
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body models.Project true "Project Data"
// @Success 201 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var project models.Project
	if err := BindNestedOrFlat(c, "project", &project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if project.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del tablero es requerido"})
		return
	}

	actorID := middleware.GetUserID(c)
	project.CompanyID = middleware.GetCompanyID(c)
	project.CreatedBy = &actorID

	if err := h.projectService.Create(c.Request.Context(), &project, actorID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project.ToResponse()})
}

// @Summary Update Project
// @Description Update a project board
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body models.Project true "Project Data"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	companyID := middleware.GetCompanyID(c)

	existing, err := h.projectService.FindByID(c.Request.Context(), companyID, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tablero no encontrado"})
		return
	}

	var project models.Project
	if err := BindNestedOrFlat(c, "project", &project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project.ID = existing.ID
	project.CompanyID = companyID
	project.ShareToken = existing.ShareToken
	project.SharedAt = existing.SharedAt
	project.CreatedBy = existing.CreatedBy
	project.CreatedAt = existing.CreatedAt

	if err := h.projectService.Update(c.Request.Context(), &project, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Delete Project
// @Description Delete a project board
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	err := h.projectService.Delete(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tablero eliminado exitosamente"})
}

// @Summary Share Project
// @Description Mint the board's public share token
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/share [post]
func (h *ProjectHandler) Share(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	project, err := h.projectService.Share(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse(), "share_token": project.ShareToken})
}

// @Summary Unshare Project
// @Description Revoke the board's share token
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id}/share [delete]
func (h *ProjectHandler) Unshare(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	err := h.projectService.Unshare(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "El tablero ya no está compartido"})
}

type ColumnRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
}

// @Summary Add Column
// @Description Add a column to the board
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body ColumnRequest true "Column Data"
// @Success 201 {object} models.BoardColumn
// @Security BearerAuth
// @Router /projects/{project_id}/columns [post]
func (h *ProjectHandler) AddColumn(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)

	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	col, err := h.projectService.AddColumn(c.Request.Context(), middleware.GetCompanyID(c), uint(projectID), req.Name, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"column": col})
}

// @Summary Rename Column
// @Description Rename a board column
// @Tags Projects
// @Accept json
// @Produce json
// @Param column_id path int true "Column ID"
// @Param request body ColumnRequest true "Column Data"
// @Success 200 {object} models.BoardColumn
// @Security BearerAuth
// @Router /columns/{column_id} [put]
func (h *ProjectHandler) RenameColumn(c *gin.Context) {
	columnID, _ := strconv.ParseUint(c.Param("column_id"), 10, 32)

	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	col, err := h.projectService.RenameColumn(c.Request.Context(), middleware.GetCompanyID(c), uint(columnID), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"column": col})
}

// @Summary Delete Column
// @Description Delete a board column and its cards
// @Tags Projects
// @Produce json
// @Param column_id path int true "Column ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /columns/{column_id} [delete]
func (h *ProjectHandler) DeleteColumn(c *gin.Context) {
	columnID, _ := strconv.ParseUint(c.Param("column_id"), 10, 32)
	err := h.projectService.DeleteColumn(c.Request.Context(), middleware.GetCompanyID(c), uint(columnID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Columna eliminada exitosamente"})
}

type CardRequest struct {
	ColumnID    uint    `json:"column_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
	AssigneeID  *uint   `json:"assignee_id"`
}

// @Summary Add Card
// @Description Add a card to a board column
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body CardRequest true "Card Data"
// @Success 201 {object} models.BoardCard
// @Security BearerAuth
// @Router /cards [post]
func (h *ProjectHandler) AddCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := &models.BoardCard{
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		AssigneeID:  req.AssigneeID,
	}
	if err := h.projectService.AddCard(c.Request.Context(), middleware.GetCompanyID(c), card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"card": card})
}

type UpdateCardRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	AssigneeID  *uint   `json:"assignee_id"`
}

// @Summary Update Card
// @Description Update a board card
// @Tags Projects
// @Accept json
// @Produce json
// @Param card_id path int true "Card ID"
// @Param request body UpdateCardRequest true "Card Data"
// @Success 200 {object} models.BoardCard
// @Security BearerAuth
// @Router /cards/{card_id} [put]
func (h *ProjectHandler) UpdateCard(c *gin.Context) {
	cardID, _ := strconv.ParseUint(c.Param("card_id"), 10, 32)
	companyID := middleware.GetCompanyID(c)

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := &models.BoardCard{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	card.ID = uint(cardID)
	if err := h.projectService.UpdateCard(c.Request.Context(), companyID, card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

type MoveCardRequest struct {
	ColumnID uint `json:"column_id" binding:"required"`
	Position int  `json:"position"`
}

// @Summary Move Card
// @Description Move a card to another column and position
// @Tags Projects
// @Accept json
// @Produce json
// @Param card_id path int true "Card ID"
// @Param request body MoveCardRequest true "Target"
// @Success 200 {object} models.BoardCard
// @Security BearerAuth
// @Router /cards/{card_id}/move [post]
func (h *ProjectHandler) MoveCard(c *gin.Context) {
	cardID, _ := strconv.ParseUint(c.Param("card_id"), 10, 32)

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.projectService.MoveCard(c.Request.Context(), middleware.GetCompanyID(c), uint(cardID), req.ColumnID, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

// @Summary Delete Card
// @Description Delete a board card
// @Tags Projects
// @Produce json
// @Param card_id path int true "Card ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /cards/{card_id} [delete]
func (h *ProjectHandler) DeleteCard(c *gin.Context) {
	cardID, _ := strconv.ParseUint(c.Param("card_id"), 10, 32)
	err := h.projectService.DeleteCard(c.Request.Context(), middleware.GetCompanyID(c), uint(cardID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tarjeta eliminada exitosamente"})
}
