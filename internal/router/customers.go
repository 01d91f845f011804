package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/mongo"
	"github.com/storefront-labs/checkout-api/pkg/orders"
)

func CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.L().Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create customer", nil))
		return
	}

	customer := &models.Customer{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Addresses: []models.Address{},
	}
	if req.Address.Line1 != "" {
		req.Address.ID = bson.NewObjectID()
		req.Address.IsDefault = true
		customer.Addresses = append(customer.Addresses, req.Address)
	}
	customer.SetTimestamps()

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	if err := store.CreateCustomer(ctx, customer); err != nil {
		if errors.Is(err, mongo.ErrEmailExists) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Customer already exists", []global.ValidationError{
				{Field: "email", Message: "A customer with this email already exists", Code: "duplicate"},
			}))
			return
		}
		logging.L().Error("failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create customer", nil))
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(customer))
}

func GetCustomerByID(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBusinessError(c, orders.ErrCustomerNotFound)
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	customer, err := store.CustomerByID(ctx, id)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(customer))
}

func AddCustomerAddress(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBusinessError(c, orders.ErrCustomerNotFound)
		return
	}

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	if address.Line1 == "" || address.City == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid address", []global.ValidationError{
			{Field: "line1", Message: "Line1 and city are required", Code: "required"},
		}))
		return
	}
	address.ID = bson.NewObjectID()

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	customer, err := store.AddCustomerAddress(ctx, id, address)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(customer))
}
