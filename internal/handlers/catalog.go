package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary      List fuels
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, fuels"
// @Router       /api/v1/catalog/fuels [get]
// @Security     BearerAuth
func (h *Handler) listFuels(c *gin.Context) {
	fuels := h.services.Catalog.Fuels()
	c.JSON(http.StatusOK, gin.H{"count": len(fuels), "fuels": fuels})
}

// @Summary      Add fuel
// @Description  Registers a material fuel (keyed by item type) or a custom fuel (keyed by id and matched by variant tag).
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      catalog.Fuel  true  "Fuel definition"
// @Success      201   {object}  catalog.Fuel
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/catalog/fuels [post]
// @Security     BearerAuth
func (h *Handler) addFuel(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	f, err := h.services.Catalog.AddFuel(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, "catalog_add_fuel_failed", err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// @Summary      Remove custom fuel
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Custom fuel id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/catalog/fuels/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removeFuel(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Catalog.RemoveFuel(c.Request.Context(), id); err != nil {
		h.respondError(c, "catalog_remove_fuel_failed", err, "id", id)
		return
	}
	h.audit(c, "catalog_fuel_removed", "id", id)
	c.Status(http.StatusNoContent)
}

// @Summary      List recipes
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Recipe category"  Enums(smelting,refining,alloying)
// @Success      200       {object}  map[string]interface{}  "count, recipes"
// @Router       /api/v1/catalog/recipes [get]
// @Security     BearerAuth
func (h *Handler) listRecipes(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	recipes := h.services.Catalog.Recipes(category)
	c.JSON(http.StatusOK, gin.H{"count": len(recipes), "recipes": recipes})
}

// @Summary      Add recipe
// @Description  Registers a recipe. Ids of existing recipes with matching input are reported as overlaps.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      catalog.Recipe  true  "Recipe definition"
// @Success      201   {object}  service.RecipeResult
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/catalog/recipes [post]
// @Security     BearerAuth
func (h *Handler) addRecipe(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	res, err := h.services.Catalog.AddRecipe(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, "catalog_add_recipe_failed", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Remove recipe
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Recipe id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/catalog/recipes/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removeRecipe(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Catalog.RemoveRecipe(c.Request.Context(), id); err != nil {
		h.respondError(c, "catalog_remove_recipe_failed", err, "id", id)
		return
	}
	h.audit(c, "catalog_recipe_removed", "id", id)
	c.Status(http.StatusNoContent)
}

// @Summary      List archetypes
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, archetypes"
// @Router       /api/v1/catalog/archetypes [get]
// @Security     BearerAuth
func (h *Handler) listArchetypes(c *gin.Context) {
	list := h.services.Catalog.Archetypes()
	c.JSON(http.StatusOK, gin.H{"count": len(list), "archetypes": list})
}
