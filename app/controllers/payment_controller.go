package controllers

import (
	"net/http"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/response"
)

type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

type createSessionInput struct {
	OrderID      uint `json:"order_id" validate:"nullable,integer,gte=1"`
	PrebookingID uint `json:"prebooking_id" validate:"nullable,integer,gte=1"`
}

// CreateOrder registers a gateway order for a local PENDING record and
// returns the checkout session.
func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in createSessionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if (in.OrderID == 0) == (in.PrebookingID == 0) {
		response.ValidationError(w, map[string]string{
			"order_id": "provide exactly one of order_id or prebooking_id",
		})
		return
	}

	var (
		session services.CheckoutSession
		err     error
	)
	if in.OrderID != 0 {
		session, err = c.service.CreateGatewaySession(in.OrderID)
	} else {
		session, err = c.service.CreatePrebookingSession(in.PrebookingID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, session)
}

type verifyInput struct {
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// Verify checks the checkout signature and settles the matching record.
// Safe to replay: a second call for a settled record is a no-op.
func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	var in verifyInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	verified, err := c.service.Verify(in.GatewayOrderID, in.PaymentID, in.Signature)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, verified)
}

// Refund refunds a paid order at the gateway. Admin only.
func (c *PaymentController) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.service.Refund(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}
