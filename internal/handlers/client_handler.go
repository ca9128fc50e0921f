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

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// @Summary List Clients
// @Description Get a paginated list of clients and prospects
// @Tags Clients
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or email"
// @Param status query string false "Filter by status (prospect|active|archived)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")

	clients, total, err := h.clientService.List(c.Request.Context(), middleware.GetCompanyID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ClientResponse
	for _, cl := range clients {
		responses = append(responses, cl.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Client
// @Description Get a client with its quotes and invoices
// @Tags Clients
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	client, err := h.clientService.FindByIDWithDetails(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// @Summary Create Client
// @Description Create a new client (a prospect by default)
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body models.Client true "Client Data"
// @Success 201 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var client models.Client
	if err := BindNestedOrFlat(c, "client", &client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if client.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del cliente es requerido"})
		return
	}

	actorID := middleware.GetUserID(c)
	client.CompanyID = middleware.GetCompanyID(c)
	client.CreatedBy = &actorID

	if err := h.clientService.Create(c.Request.Context(), &client, actorID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse()})
}

// @Summary Update Client
// @Description Update an existing client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Param request body models.Client true "Client Data"
// @Success 200 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients/{client_id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	companyID := middleware.GetCompanyID(c)

	existing, err := h.clientService.FindByID(c.Request.Context(), companyID, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	var client models.Client
	if err := BindNestedOrFlat(c, "client", &client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client.ID = existing.ID
	client.CompanyID = companyID
	client.Status = existing.Status
	client.CreatedBy = existing.CreatedBy
	client.CreatedAt = existing.CreatedAt

	if err := h.clientService.Update(c.Request.Context(), &client, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// @Summary Archive Client
// @Description Move a client to the archived state
// @Tags Clients
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id}/archive [post]
func (h *ClientHandler) Archive(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	err := h.clientService.Archive(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente archivado exitosamente"})
}

// @Summary Delete Client
// @Description Delete a client
// @Tags Clients
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	err := h.clientService.Delete(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado exitosamente"})
}

// @Summary Check Prospect Conversion
// @Description Convert the prospect to active client if it qualifies
// @Tags Clients
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/check_conversion [post]
func (h *ClientHandler) CheckConversion(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	conversion, err := h.clientService.CheckAndConvertProspect(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if conversion == nil {
		c.JSON(http.StatusOK, gin.H{"converted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"converted": true, "conversion": conversion})
}

// @Summary Convert Prospect
// @Description Convert a prospect to active client unconditionally
// @Tags Clients
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/convert [post]
func (h *ClientHandler) Convert(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	conversion, err := h.clientService.ConvertProspectToClient(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if conversion == nil {
		c.JSON(http.StatusOK, gin.H{"converted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"converted": true, "conversion": conversion})
}

// @Summary Convert Qualified Prospects
// @Description Batch convert every qualifying prospect of the company
// @Tags Clients
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/convert_qualified [post]
func (h *ClientHandler) ConvertQualified(c *gin.Context) {
	conversions, err := h.clientService.ConvertQualifiedProspects(c.Request.Context(), middleware.GetCompanyID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"converted":   len(conversions),
		"conversions": conversions,
	})
}
