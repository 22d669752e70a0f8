package controllers

import (
	"net/http"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.service.Register(in.Name, in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, map[string]interface{}{
		"user":          user,
		"token":         pair.Token,
		"refresh_token": pair.RefreshToken,
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.service.Login(in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"user":          user,
		"token":         pair.Token,
		"refresh_token": pair.RefreshToken,
	})
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Profile(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}
