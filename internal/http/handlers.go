package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
	"dhandho/internal/service"
)

type Server struct {
	engine     *gin.Engine
	businesses *service.BusinessService
	products   *service.ProductService
	orders     *service.OrderService
	relations  *service.RelationService
	employees  *service.EmployeeService
	log        *logrus.Logger
	jwtSecret  []byte
}

func NewServer(
	businesses *service.BusinessService,
	products *service.ProductService,
	orders *service.OrderService,
	relations *service.RelationService,
	employees *service.EmployeeService,
	log *logrus.Logger,
	jwtSecret []byte,
) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	s := &Server{
		engine:     r,
		businesses: businesses,
		products:   products,
		orders:     orders,
		relations:  relations,
		employees:  employees,
		log:        log,
		jwtSecret:  jwtSecret,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		// candidate endpoints, no business context yet
		v1.POST("/employee-requests", s.submitEmployeeRequest)
		v1.GET("/employee-requests/check", s.checkEmployeeRequest)
		v1.POST("/employee-requests/consume", s.consumeEmployeeRequest)

		auth := v1.Group("", authRequired(s.jwtSecret))

		auth.POST("/businesses", s.createBusiness)
		auth.GET("/businesses/search", s.searchBusinesses)
		auth.GET("/businesses/:uid", s.getBusiness)

		auth.GET("/products", s.listProducts)
		auth.POST("/products", s.createProduct)
		auth.DELETE("/products/:id", s.deleteProduct)
		auth.GET("/sellers/:uid/products", s.listSellerProducts)

		auth.POST("/orders", s.createOrder)
		auth.GET("/orders", s.listOrders)
		auth.GET("/orders/:id", s.getOrder)

		auth.GET("/connections", s.listConnections)
		auth.GET("/connections/requests", s.listConnectionRequests)
		auth.POST("/connections/requests", s.sendConnectionRequest)
		auth.POST("/connections/requests/:id/resolve", s.resolveConnectionRequest)
		auth.DELETE("/connections/requests/:id", s.withdrawConnectionRequest)

		auth.GET("/employees", s.listEmployees)
		auth.GET("/employee-requests/inbox", s.listEmployeeRequests)
		auth.POST("/employee-requests/:id/resolve", s.resolveEmployeeRequest)
	}
}

// Business handlers

type createBusinessReq struct {
	BusinessID    string `json:"business_id"`
	BusinessName  string `json:"business_name"`
	OwnerName     string `json:"owner_name"`
	Contact       string `json:"contact"`
	BusinessEmail string `json:"business_email"`
	Address       string `json:"address"`
	Slogan        string `json:"slogan"`
}

// @Summary Register a business
// @Tags businesses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createBusinessReq true "Business"
// @Success 201 {object} domain.Business
// @Failure 400 {object} map[string]string
// @Router /businesses [post]
func (s *Server) createBusiness(c *gin.Context) {
	var req createBusinessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	owner, ok := actingUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user context"})
		return
	}
	b, err := s.businesses.Create(c, domain.Business{
		BusinessID:    req.BusinessID,
		BusinessName:  req.BusinessName,
		OwnerName:     req.OwnerName,
		Contact:       req.Contact,
		BusinessEmail: req.BusinessEmail,
		Address:       req.Address,
		Slogan:        req.Slogan,
		OwnerID:       owner,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// @Summary Search businesses by public code
// @Tags businesses
// @Produce json
// @Security BearerAuth
// @Param code query string true "Public business code, 5 chars minimum"
// @Success 200 {array} domain.Business
// @Router /businesses/search [get]
func (s *Server) searchBusinesses(c *gin.Context) {
	found, err := s.businesses.Search(c, c.Query("code"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, found)
}

// @Summary Get business by UID
// @Tags businesses
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Business UID"
// @Success 200 {object} domain.Business
// @Failure 404 {object} map[string]string
// @Router /businesses/{uid} [get]
func (s *Server) getBusiness(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uid"})
		return
	}
	b, err := s.businesses.GetByUID(c, uid)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// Product handlers

type createProductReq struct {
	ProductName string `json:"product_name"`
	Rate        string `json:"rate"`
	MRP         string `json:"mrp"`
	CostPrice   string `json:"cost_price"`
	QtyInCtn    *int64 `json:"qty_in_ctn"`
	ImageURL    string `json:"image_url"`
}

// productFromReq разбирает денежные поля; цены приходят строками,
// чтобы не терять точность на float
func productFromReq(req createProductReq, seller uuid.UUID) (domain.Product, error) {
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return domain.Product{}, errors.New("invalid rate")
	}
	mrp := decimal.Zero
	if req.MRP != "" {
		if mrp, err = decimal.NewFromString(req.MRP); err != nil {
			return domain.Product{}, errors.New("invalid mrp")
		}
	}
	cost := decimal.Zero
	if req.CostPrice != "" {
		if cost, err = decimal.NewFromString(req.CostPrice); err != nil {
			return domain.Product{}, errors.New("invalid cost_price")
		}
	}
	return domain.Product{
		SellerUID:   seller,
		ProductName: req.ProductName,
		Rate:        rate,
		MRP:         mrp,
		CostPrice:   cost,
		QtyInCtn:    req.QtyInCtn,
		ImageURL:    req.ImageURL,
	}, nil
}

// @Summary Add a product to own catalogue
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createProductReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	seller, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	p, err := productFromReq(req, seller)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := s.products.Create(c, p)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary List own products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	seller, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	items, err := s.products.ListBySeller(c, seller)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary List a connected seller's catalogue
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Seller business UID"
// @Success 200 {array} domain.Product
// @Failure 403 {object} map[string]string
// @Router /sellers/{uid}/products [get]
func (s *Server) listSellerProducts(c *gin.Context) {
	buyer, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	seller, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uid"})
		return
	}
	connected, err := s.relations.IsConnected(c, buyer, seller)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !connected {
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrNotConnected.Error()})
		return
	}
	items, err := s.products.ListBySeller(c, seller)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Delete own product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	seller, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	if err := s.products.Delete(c, id, seller); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Order handlers

type createOrderReq struct {
	ToStore string              `json:"to_store"`
	Lines   []service.LineInput `json:"lines"`
}

// @Summary Place an order with a connected seller
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createOrderReq true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	from, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	placedBy, _ := actingUser(c)
	to, err := uuid.Parse(req.ToStore)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to_store"})
		return
	}
	o, err := s.orders.PlaceOrder(c, from, to, placedBy, req.Lines)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	o, err := s.orders.GetOrder(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	// orders are visible only to the two parties
	if o.FromStore != business && o.ToStore != business {
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary List own orders, placed and received
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	orders, err := s.orders.ListOrders(c, business)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Connection handlers

// @Summary List established connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.BusinessRelation
// @Router /connections [get]
func (s *Server) listConnections(c *gin.Context) {
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	relations, err := s.relations.ListConnections(c, business)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, relations)
}

// @Summary List connection requests, sent and received
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]domain.BusinessRequest
// @Router /connections/requests [get]
func (s *Server) listConnectionRequests(c *gin.Context) {
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	sent, received, err := s.relations.ListRequests(c, business)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent, "received": received})
}

type sendRequestReq struct {
	ToBusinessUID string `json:"to_business_uid"`
}

// @Summary Request a connection with a seller
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body sendRequestReq true "Target business"
// @Success 201 {object} domain.BusinessRequest
// @Failure 409 {object} map[string]string
// @Router /connections/requests [post]
func (s *Server) sendConnectionRequest(c *gin.Context) {
	var req sendRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	from, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	to, err := uuid.Parse(req.ToBusinessUID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to_business_uid"})
		return
	}
	r, err := s.relations.SendRequest(c, from, to)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, r)
}

type resolveReq struct {
	Action string `json:"action"` // approve | reject
}

// @Summary Approve or reject a received connection request
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param input body resolveReq true "Decision"
// @Success 200 {object} domain.BusinessRequest
// @Failure 409 {object} map[string]string
// @Router /connections/requests/{id}/resolve [post]
func (s *Server) resolveConnectionRequest(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req resolveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	approve, err := parseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	resolved, err := s.relations.ResolveRequest(c, id, business, approve)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	if approve {
		// requester is the customer, recipient the seller
		if _, err := s.relations.EstablishRelation(c, resolved.FromBusinessUID, resolved.ToBusinessUID); err != nil {
			s.log.WithFields(logrus.Fields{
				"module":    "httpapi",
				"funcName":  "resolveConnectionRequest",
				"requestId": id,
			}).WithError(err).Error("request approved but relation not established")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "request approved but connection was not established"})
			return
		}
	}
	c.JSON(http.StatusOK, resolved)
}

// @Summary Withdraw own pending connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Router /connections/requests/{id} [delete]
func (s *Server) withdrawConnectionRequest(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	if err := s.relations.WithdrawRequest(c, id, business); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Employee onboarding handlers

// @Summary Submit an employment request
// @Tags employees
// @Accept json
// @Produce json
// @Param input body service.SubmitRequestInput true "Request"
// @Success 201 {object} domain.EmployeeRequest
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /employee-requests [post]
func (s *Server) submitEmployeeRequest(c *gin.Context) {
	var req service.SubmitRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.employees.SubmitRequest(c, req)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary Check own employment request status
// @Tags employees
// @Produce json
// @Param email query string true "Email used in the request"
// @Success 200 {object} domain.EmployeeRequest
// @Failure 404 {object} map[string]string
// @Router /employee-requests/check [get]
func (s *Server) checkEmployeeRequest(c *gin.Context) {
	r, err := s.employees.CheckRequest(c, c.Query("email"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

type consumeReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Create credentials from an approved employment request
// @Tags employees
// @Accept json
// @Produce json
// @Param input body consumeReq true "Credentials"
// @Success 201 {object} domain.Employee
// @Failure 409 {object} map[string]string
// @Router /employee-requests/consume [post]
func (s *Server) consumeEmployeeRequest(c *gin.Context) {
	var req consumeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	e, err := s.employees.ConsumeRequest(c, req.Email, req.Password)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// @Summary List employment requests addressed to own business
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.EmployeeRequest
// @Router /employee-requests/inbox [get]
func (s *Server) listEmployeeRequests(c *gin.Context) {
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	items, err := s.employees.ListRequests(c, business)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Approve or reject an employment request
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param input body resolveReq true "Decision"
// @Success 200 {object} domain.EmployeeRequest
// @Failure 409 {object} map[string]string
// @Router /employee-requests/{id}/resolve [post]
func (s *Server) resolveEmployeeRequest(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req resolveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	approve, err := parseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	resolved, err := s.employees.ResolveRequest(c, id, business, approve)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resolved)
}

// @Summary List own staff
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Employee
// @Router /employees [get]
func (s *Server) listEmployees(c *gin.Context) {
	business, ok := actingBusiness(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no business context"})
		return
	}
	staff, err := s.employees.ListEmployees(c, business)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func parseAction(action string) (bool, error) {
	switch action {
	case "approve":
		return true, nil
	case "reject":
		return false, nil
	default:
		return false, errors.New("action must be approve or reject")
	}
}

func mapErrorToStatus(err error) int {
	var dup *service.DuplicateProductError
	var orphan *service.OrphanedOrderError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrSelfOrder),
		errors.Is(err, service.ErrSelfRequest),
		errors.Is(err, service.ErrEmptyLine),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrForeignProduct),
		errors.As(err, &dup):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotConnected):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrDuplicateRequest),
		errors.Is(err, service.ErrRequestNotApproved):
		return http.StatusConflict
	case errors.As(err, &orphan):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
