package controllers

import (
	"net/http"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type createOrderInput struct {
	ProjectID uint  `json:"project_id" validate:"nullable,integer,gte=1"`
	CoinPack  int64 `json:"coin_pack" validate:"nullable,integer,gte=1"`
}

// Create opens a PENDING order. Exactly one of project_id or coin_pack
// must be set; the amount always comes from the server-side price.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in createOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if (in.ProjectID == 0) == (in.CoinPack == 0) {
		response.ValidationError(w, map[string]string{
			"project_id": "provide exactly one of project_id or coin_pack",
		})
		return
	}

	buyerID, _ := middleware.UserIDFromCtx(r.Context())

	var (
		order models.Order
		err   error
	)
	if in.ProjectID != 0 {
		order, err = c.service.CreateProjectOrder(buyerID, in.ProjectID)
	} else {
		order, err = c.service.CreateCoinPackOrder(buyerID, in.CoinPack)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// History lists the caller's orders and prebookings.
func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	buyerID, _ := middleware.UserIDFromCtx(r.Context())
	history, err := c.service.History(buyerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, history)
}

// AdminHistory lists everything. Admin only.
func (c *OrderController) AdminHistory(w http.ResponseWriter, r *http.Request) {
	history, err := c.service.AdminHistory()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, history)
}

type transitionInput struct {
	Status string `json:"status" validate:"required,in=PENDING,PAID,COMPLETED,CANCELLED,REFUNDED"`
}

// Transition moves an order through the status table. Admin only;
// payment-driven transitions go through the verify endpoint instead.
func (c *OrderController) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in transitionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Transition(id, models.PaymentStatus(in.Status))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

type prebookingInput struct {
	ProductTitle string  `json:"product_title" validate:"required,min=2,max=255"`
	UserDetails  string  `json:"user_details" validate:"nullable,max=10000"`
	Amount       float64 `json:"amount" validate:"required,numeric,gte=1"`
	Currency     string  `json:"currency" validate:"nullable,in=INR,USD,EUR,GBP,JPY"`
}

func (c *OrderController) CreatePrebooking(w http.ResponseWriter, r *http.Request) {
	var in prebookingInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	buyerID, _ := middleware.UserIDFromCtx(r.Context())
	p, err := c.service.CreatePrebooking(buyerID, in.ProductTitle, in.UserDetails, in.Amount, in.Currency)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, p)
}

// TransitionPrebooking is the PATCH /prebookings/{id} status move.
func (c *OrderController) TransitionPrebooking(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in transitionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.TransitionPrebooking(id, models.PaymentStatus(in.Status))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, p)
}
