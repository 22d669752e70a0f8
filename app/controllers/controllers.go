// Package controllers holds the HTTP handlers. Each controller wraps
// one service; handlers bind and validate input, call the service, and
// translate domain errors to the response envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/config"
	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/razorpay"
	"github.com/workhive/workhive/pkg/response"
	"github.com/workhive/workhive/pkg/router"
	"gorm.io/gorm"
)

// fail maps domain errors onto the wire contract: missing rows are 404,
// forbidden transitions are 409, gateway and wallet failures are 400,
// and anything unexpected is a 500 whose detail leaks only outside
// production.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var invTransition *models.InvalidTransitionError
	var gwErr *razorpay.GatewayError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(w)
	case errors.As(err, &invTransition):
		response.Conflict(w, invTransition.Error())
	case errors.Is(err, services.ErrBadContactTransition):
		response.Conflict(w, err.Error())
	case errors.As(err, &gwErr):
		response.Error(w, http.StatusBadRequest, gwErr.Description)
	case errors.Is(err, services.ErrSignatureMismatch),
		errors.Is(err, services.ErrUnknownGatewayOrder),
		errors.Is(err, services.ErrGatewayNotConfigured),
		errors.Is(err, services.ErrInsufficientCoins),
		errors.Is(err, services.ErrUnknownCoinPack),
		errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w)
	case errors.Is(err, services.ErrNotParticipant), errors.Is(err, services.ErrNotAuthor):
		response.Forbidden(w)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		if config.AppEnv() == "production" {
			response.Error(w, http.StatusInternalServerError, "internal server error")
		} else {
			response.Error(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// paramID parses a numeric path parameter.
func paramID(r *http.Request, key string) (uint, bool) {
	n, err := strconv.ParseUint(router.Param(r, key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
