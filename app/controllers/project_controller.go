package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/response"
)

const maxAttachmentBytes = 10 << 20 // 10 MB

type ProjectController struct {
	service *services.ProjectService
}

func NewProjectController(service *services.ProjectService) *ProjectController {
	return &ProjectController{service: service}
}

func (c *ProjectController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	list, err := c.service.List(q.Get("category"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, list)
}

func (c *ProjectController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	p, err := c.service.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, p)
}

type projectInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"nullable,max=10000"`
	Price       float64 `json:"price" validate:"required,numeric,gte=0"`
	Category    string  `json:"category" validate:"nullable,max=100"`
}

func (c *ProjectController) Create(w http.ResponseWriter, r *http.Request) {
	var in projectInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	p := models.Project{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		OwnerID:     userID,
	}
	if err := c.service.Create(&p); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, p)
}

func (c *ProjectController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in projectInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	if err := c.service.Update(&p); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, p)
}

func (c *ProjectController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.service.Delete(id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]uint{"deleted": id})
}

// Attach stores an uploaded file against the project. Multipart form
// with a single "file" part.
func (c *ProjectController) Attach(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "could not read upload")
		return
	}

	p, err := c.service.AttachFile(id, header.Filename, content)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, p)
}
