package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// bindJSON decodes the request body into dst. An empty body is allowed when
// optional is set, leaving dst at its zero value.
func bindJSON(c *gin.Context, dst interface{}, optional bool) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	return nil
}
