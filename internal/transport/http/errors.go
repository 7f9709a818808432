package http

import (
	"errors"

	"gemscope/internal/charts"
	"gemscope/internal/dataprocessing"
	apierrors "gemscope/internal/errors"
	"gemscope/internal/services"
)

// toAPIError maps service sentinels to API errors. Anything else is
// returned as is for the error handler to classify.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnknownSubset):
		return apierrors.ErrSubsetNotFound.With(err.Error(),
			map[string]interface{}{"subsets": dataprocessing.SubsetNames()})
	case errors.Is(err, services.ErrInvalidPage):
		return apierrors.ErrInvalidParameter.With("Invalid page", err.Error())
	case errors.Is(err, services.ErrInsufficientData):
		return apierrors.ErrInsufficientData.With(err.Error(), nil)
	case errors.Is(err, services.ErrImageNotFound):
		return apierrors.NotFoundError("reference image")
	case errors.Is(err, charts.ErrUnknownPanel), errors.Is(err, charts.ErrUnknownFormat):
		return apierrors.ErrNotFound.With(err.Error(),
			map[string]interface{}{"panels": charts.Panels(), "formats": []charts.Format{charts.FormatSVG, charts.FormatPNG}})
	default:
		return err
	}
}
