package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "Internal server error"

type identifier struct {
	ID string `json:"id" validate:"required,uuid"`
}

// ErrorHandler maps service errors to responses, errors which are not user facing are only logged
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			pldErr  *validation.PayloadError
			bErr    *apperrors.BusinessErr
			nfErr   *apperrors.EntryNotFoundErr
			echoErr *echo.HTTPError
		)

		var respErr error
		switch {
		case errors.As(err, &pldErr):
			respErr = c.JSON(http.StatusBadRequest, pldErr)
		case errors.As(err, &bErr):
			respErr = c.JSON(http.StatusUnprocessableEntity, bErr)
		case errors.As(err, &nfErr):
			respErr = c.JSON(http.StatusNotFound, nfErr)
		case errors.As(err, &echoErr):
			e.DefaultHTTPErrorHandler(echoErr, c)
		default:
			logrus.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("request failed")
			respErr = c.JSON(http.StatusInternalServerError, echo.Map{"message": internalErrorMessage})
		}

		if respErr != nil {
			logrus.WithError(respErr).Error("failed to send error response")
		}
	}
}
