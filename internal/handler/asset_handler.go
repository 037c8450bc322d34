package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/internal/auth"
	"hrms/internal/middleware"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"
)

// AssetListQuery is the validated query payload for asset listings.
type AssetListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=available assigned retired"`
}

type AssetHandler struct {
	assetService service.AssetService
	auth         *middleware.Auth
}

func NewAssetHandler(assetService service.AssetService, authMw *middleware.Auth) *AssetHandler {
	return &AssetHandler{assetService: assetService, auth: authMw}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets")
	{
		assets.GET("", h.auth.RequirePermission(auth.PermAssetsRead),
			middleware.ValidateQuery(func() interface{} { return &AssetListQuery{} }),
			h.ListAssets)
		assets.GET("/:id", h.auth.RequirePermission(auth.PermAssetsRead), validateID(), h.GetAsset)
		assets.POST("", h.auth.RequirePermission(auth.PermAssetsWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateAssetRequest{} }),
			h.CreateAsset)
		assets.PUT("/:id", h.auth.RequirePermission(auth.PermAssetsWrite),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.UpdateAssetRequest{} },
			}),
			h.UpdateAsset)
		assets.POST("/:id/assign", h.auth.RequirePermission(auth.PermAssetsWrite),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.AssignAssetRequest{} },
			}),
			h.AssignAsset)
		assets.POST("/:id/unassign", h.auth.RequirePermission(auth.PermAssetsWrite), validateID(), h.UnassignAsset)
		assets.POST("/:id/retire", h.auth.RequirePermission(auth.PermAssetsWrite), validateID(), h.RetireAsset)
		assets.DELETE("/:id", h.auth.RequirePermission(auth.PermAssetsWrite), validateID(), h.DeleteAsset)
	}
}

// ListAssets returns the active company's assets, paginated
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        status  query     string  false  "available, assigned or retired"
// @Success      200     {object}  response.Response
// @Router       /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[AssetListQuery](c)

	filter := repository.AssetFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil {
		filter.Status = q.Status
	}

	rows, total, err := h.assetService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// GetAsset returns one asset by id
// @Summary      Get asset
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Router       /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	asset, err := h.assetService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// CreateAsset registers an asset
// @Summary      Create asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAssetRequest  true  "New asset"
// @Success      201      {object}  response.Response{data=model.Asset}
// @Router       /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CreateAssetRequest](c)
	asset, err := h.assetService.Create(c.Request.Context(), companyID, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// UpdateAsset edits an asset
// @Summary      Update asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Asset ID"
// @Param        payload  body      service.UpdateAssetRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Asset}
// @Router       /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.UpdateAssetRequest](c)
	asset, err := h.assetService.Update(c.Request.Context(), companyID, id, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// AssignAsset hands an asset to an employee
// @Summary      Assign asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Asset ID"
// @Param        payload  body      service.AssignAssetRequest  true  "Assignee"
// @Success      200      {object}  response.Response{data=model.Asset}
// @Failure      409      {object}  response.Response
// @Router       /assets/{id}/assign [post]
func (h *AssetHandler) AssignAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.AssignAssetRequest](c)
	asset, err := h.assetService.Assign(c.Request.Context(), companyID, id, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// UnassignAsset takes an asset back
// @Summary      Unassign asset
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Failure      409  {object}  response.Response
// @Router       /assets/{id}/unassign [post]
func (h *AssetHandler) UnassignAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	asset, err := h.assetService.Unassign(c.Request.Context(), companyID, id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// RetireAsset marks an asset retired
// @Summary      Retire asset
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Router       /assets/{id}/retire [post]
func (h *AssetHandler) RetireAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	asset, err := h.assetService.Retire(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// DeleteAsset removes an asset
// @Summary      Delete asset
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response
// @Router       /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.assetService.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
