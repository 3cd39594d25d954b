package webapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
	httptransport "github.com/ghelioth/les-bons-artisants-test/internal/transport/http"
)

// ProductService exposes the catalog over REST. Reads are public; every
// mutation goes through the secured group.
type ProductService struct {
	catalog *catalog.Service
	logger  *logging.Logger
}

func NewProductService(catalogService *catalog.Service, logger *logging.Logger) *ProductService {
	return &ProductService{
		catalog: catalogService,
		logger:  logger,
	}
}

// Register wires the product routes onto the API groups.
func (s *ProductService) Register(api, secured *gin.RouterGroup) {
	api.GET("/product", s.handleList)
	api.GET("/product/:id", s.handleGet)

	secured.POST("/product", s.handleCreate)
	secured.PATCH("/product/:id", s.handleUpdate)
	secured.DELETE("/product/:id", s.handleDelete)

	s.logger.InfoTag("HTTP", "product routes registered")
}

func (s *ProductService) handleList(c *gin.Context) {
	products, err := s.catalog.List(c.Request.Context())
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, products, "")
}

func (s *ProductService) handleGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := s.catalog.Get(c.Request.Context(), id)
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, product, "")
}

func (s *ProductService) handleCreate(c *gin.Context) {
	var record catalog.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	product, err := s.catalog.Create(c.Request.Context(), record)
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, product, "product created")
}

func (s *ProductService) handleUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var record catalog.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	product, err := s.catalog.Update(c.Request.Context(), id, record)
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, product, "product updated")
}

func (s *ProductService) handleDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.catalog.Delete(c.Request.Context(), id); err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"_id": id}, "product deleted")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid id (must be a number)", nil)
		return 0, false
	}
	return id, true
}
