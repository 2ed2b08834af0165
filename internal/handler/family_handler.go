package handler

import (
	"net/http"
	"strconv"

	"gamelobby/backend/internal/database"
	"gamelobby/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type FamilyInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type FamilyResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newFamilyResponse(family models.GameFamily) FamilyResponse {
	return FamilyResponse{
		ID:          family.ID,
		Name:        family.Name,
		Description: family.Description,
	}
}

// PaginatedFamilyResponse defines the structure for a paginated list of game families.
type PaginatedFamilyResponse struct {
	Data []FamilyResponse `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// endregion

// region --- Public Handlers ---

// GetFamilies godoc
// @Summary      List game families
// @Description  Gets a paginated list of catalog entries for family tags.
// @Tags         families
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedFamilyResponse
// @Router       /families [get]
func GetFamilies(c *gin.Context) {
	page, limit, offset := pageParams(c, 10, 100)

	var total int64
	if err := database.DB.Model(&models.GameFamily{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list game families"})
		return
	}

	var families []models.GameFamily
	if err := database.DB.Order("name ASC").Offset(offset).Limit(limit).Find(&families).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list game families"})
		return
	}

	response := make([]FamilyResponse, 0, len(families))
	for _, family := range families {
		response = append(response, newFamilyResponse(family))
	}

	c.JSON(http.StatusOK, PaginatedFamilyResponse{
		Data: response,
		Meta: newPaginationMeta(total, page, limit),
	})
}

// GetFamilyByID godoc
// @Summary      Get a game family by ID
// @Tags         families
// @Produce      json
// @Param        id path int true "Family ID"
// @Success      200 {object} FamilyResponse
// @Failure      404 {object} ErrorResponse "Family not found"
// @Router       /families/{id} [get]
func GetFamilyByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var family models.GameFamily
	if err := database.DB.First(&family, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}

	c.JSON(http.StatusOK, newFamilyResponse(family))
}

// endregion

// region --- Admin Handlers ---

// CreateFamily godoc
// @Summary      Create a game family
// @Tags         admin-families
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FamilyInput true "Family Info"
// @Success      201  {object}  FamilyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/families [post]
func CreateFamily(c *gin.Context) {
	var input FamilyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	family := models.GameFamily{
		Name:        input.Name,
		Description: input.Description,
	}

	if err := database.DB.Create(&family).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		return
	}

	c.JSON(http.StatusCreated, newFamilyResponse(family))
}

// UpdateFamily godoc
// @Summary      Update a game family
// @Tags         admin-families
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int         true  "Family ID"
// @Param        input body      FamilyInput true  "New Family Info"
// @Success      200   {object}  FamilyResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Family not found"
// @Router       /admin/families/{id} [put]
func UpdateFamily(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var family models.GameFamily
	if err := database.DB.First(&family, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}

	var input FamilyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	family.Name = input.Name
	family.Description = input.Description

	if err := database.DB.Save(&family).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update family"})
		return
	}

	c.JSON(http.StatusOK, newFamilyResponse(family))
}

// DeleteFamily godoc
// @Summary      Delete a game family
// @Description  Removes a catalog entry. Existing lobbies keep their numeric tag.
// @Tags         admin-families
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Family ID"
// @Success      200 {object} map[string]string "{"message": "Family deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Family not found"
// @Router       /admin/families/{id} [delete]
func DeleteFamily(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var family models.GameFamily
	if err := database.DB.First(&family, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}

	if err := database.DB.Delete(&family).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete family"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Family deleted"})
}

// endregion
