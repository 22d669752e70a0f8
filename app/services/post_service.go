package services

import (
	"errors"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
)

// ErrNotAuthor means a user tried to modify someone else's post.
var ErrNotAuthor = errors.New("only the author can modify this post")

type PostService struct {
	posts *repositories.PostRepository
}

func NewPostService(posts *repositories.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) Create(authorID uint, body string) (models.Post, error) {
	p := models.Post{AuthorID: authorID, Body: body}
	err := s.posts.Create(&p)
	return p, err
}

func (s *PostService) Feed(limit int) ([]models.Post, error) {
	list, err := s.posts.ListNewestFirst(limit)
	if list == nil {
		list = []models.Post{}
	}
	return list, err
}

func (s *PostService) Update(id, userID uint, body string) (models.Post, error) {
	p, err := s.posts.FindByID(id)
	if err != nil {
		return models.Post{}, err
	}
	if p.AuthorID != userID {
		return models.Post{}, ErrNotAuthor
	}
	p.Body = body
	err = s.posts.Update(&p)
	return p, err
}

func (s *PostService) Delete(id, userID uint, isAdmin bool) error {
	p, err := s.posts.FindByID(id)
	if err != nil {
		return err
	}
	if p.AuthorID != userID && !isAdmin {
		return ErrNotAuthor
	}
	return s.posts.Delete(id)
}

func (s *PostService) Like(id uint) (models.Post, error) {
	if err := s.posts.Like(id); err != nil {
		return models.Post{}, err
	}
	return s.posts.FindByID(id)
}
