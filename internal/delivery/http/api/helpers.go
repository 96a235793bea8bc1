package api

import (
	"strconv"

	"cv-generator-backend/internal/delivery/http/middleware"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindJSON decodes the body into dst and records a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}

// uuidParam returns the named path parameter if it is a UUID.
func uuidParam(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.Error(apperror.BadRequest("Invalid " + label + " ID"))
		return "", false
	}
	return id, true
}

func pageQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

func session(c *gin.Context) *domain.Session {
	return middleware.SessionFrom(c)
}
