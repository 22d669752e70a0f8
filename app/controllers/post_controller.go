package controllers

import (
	"net/http"
	"strconv"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/response"
)

type PostController struct {
	service *services.PostService
}

func NewPostController(service *services.PostService) *PostController {
	return &PostController{service: service}
}

type postInput struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	p, err := c.service.Create(userID, in.Body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, p)
}

func (c *PostController) Feed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := c.service.Feed(limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, list)
}

func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in postInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	p, err := c.service.Update(id, userID, in.Body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, p)
}

func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	role, _ := middleware.RoleFromCtx(r.Context())
	if err := c.service.Delete(id, userID, role == models.RoleAdmin); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]uint{"deleted": id})
}

func (c *PostController) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	p, err := c.service.Like(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, p)
}
