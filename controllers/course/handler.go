package controllers

import (
	"careerhub/services/learning"
)

// Handler serves the course routes. Plain catalogue reads and writes go to
// the database directly; the learning workflow goes through Learning.
type Handler struct {
	Learning *learning.Service
}

func NewHandler(svc *learning.Service) *Handler {
	return &Handler{Learning: svc}
}
