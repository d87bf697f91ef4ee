package rest

import (
	"errors"
	"net/http"

	"picshare/images/application"
	"picshare/images/domain"

	"github.com/gin-gonic/gin"
)

// Api holds the gateways the HTTP surface delegates to. The handlers are
// thin glue: caller identity arrives as plain request fields because
// authentication belongs to an external collaborator.
type Api struct {
	images *application.ImageGateway
	logs   *application.LogGateway
}

func NewApi(router *gin.Engine, images *application.ImageGateway, logs *application.LogGateway) *Api {
	h := &Api{
		images: images,
		logs:   logs,
	}

	imagesV1 := router.Group("images/v1")
	{
		imagesV1.POST("/", h.Upload)
		imagesV1.GET("/", h.ListAll)
		imagesV1.GET("/owner/:ownerId", h.ListByOwner)
		imagesV1.DELETE("/owner/:ownerId", h.DeleteAllForOwner)
		imagesV1.GET("/:ownerId/:imageId", h.Details)
		imagesV1.PUT("/:ownerId/:imageId", h.Edit)
		imagesV1.DELETE("/:ownerId/:imageId", h.Delete)
	}

	logsV1 := router.Group("logs/v1")
	{
		logsV1.GET("/", h.ListViews)
	}

	return h
}

// respondError maps gateway errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
