package controllers

import (
	"net/http"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/razorpay"
	"github.com/workhive/workhive/pkg/response"
)

// AdminConfigController manages the payment-gateway account through the
// admin API. All routes sit behind the ADMIN role guard.
type AdminConfigController struct {
	service *services.GatewayConfigService
}

func NewAdminConfigController(service *services.GatewayConfigService) *AdminConfigController {
	return &AdminConfigController{service: service}
}

type gatewayConfigInput struct {
	KeyID     string `json:"key_id" validate:"required"`
	KeySecret string `json:"key_secret" validate:"required"`
	BaseURL   string `json:"base_url" validate:"nullable,url"`
}

// Save validates and persists credentials. The secret is encrypted
// before it touches disk.
func (c *AdminConfigController) Save(w http.ResponseWriter, r *http.Request) {
	var in gatewayConfigInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	fieldErrs, err := c.service.Save(razorpay.Credentials{
		KeyID:     in.KeyID,
		KeySecret: in.KeySecret,
		BaseURL:   in.BaseURL,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		response.ValidationError(w, fieldErrs)
		return
	}

	masked, err := c.service.Masked()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, masked)
}

// Show returns the active settings with the key id masked. The secret
// is never echoed.
func (c *AdminConfigController) Show(w http.ResponseWriter, r *http.Request) {
	masked, err := c.service.Masked()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, masked)
}

// Test probes the gateway with the stored credentials and relays a
// failure as 400.
func (c *AdminConfigController) Test(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Test(); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"gateway": "ok"})
}
