package controllers

import (
	"net/http"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/response"
)

type ContactController struct {
	service *services.ContactService
}

func NewContactController(service *services.ContactService) *ContactController {
	return &ContactController{service: service}
}

type contactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=2,max=255"`
	Message string `json:"message" validate:"required,min=5,max=10000"`
}

// Submit is the public contact form endpoint.
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	submission, err := c.service.Submit(in.Name, in.Email, in.Subject, in.Message)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, submission)
}

// List serves the admin inbox. Never errors: a storage failure shows an
// empty inbox.
func (c *ContactController) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.service.List(r.URL.Query().Get("status")))
}

type contactStatusInput struct {
	Status string `json:"status" validate:"required,in=NEW,READ,REPLIED,CLOSED"`
}

// UpdateStatus moves a submission through the triage flow. Admin only.
func (c *ContactController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in contactStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	submission, err := c.service.UpdateStatus(id, in.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, submission)
}
