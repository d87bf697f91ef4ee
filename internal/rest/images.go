package rest

import (
	"net/http"

	"picshare/api"
	"picshare/images/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (h *Api) toView(img *domain.Image) api.ImageView {
	return api.ImageView{
		ID:          img.ID,
		OwnerID:     img.OwnerID,
		OwnerName:   img.OwnerName,
		Caption:     img.Caption,
		Description: img.Description,
		DateTaken:   img.DateTaken,
		URI:         h.images.ImageURL(img.ID),
	}
}

func (h *Api) Upload(c *gin.Context) {
	var upload api.ImageUpload
	if err := c.ShouldBind(&upload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("imageFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file specified"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open image file"})
		return
	}
	defer file.Close()

	img := &domain.Image{
		OwnerID:     upload.OwnerID,
		OwnerName:   upload.OwnerName,
		Caption:     upload.Caption,
		Description: upload.Description,
		DateTaken:   upload.DateTaken,
	}

	id, err := h.images.Create(c.Request.Context(), img, file, fileHeader.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":  id,
		"uri": h.images.ImageURL(id),
	})
}

func (h *Api) ListAll(c *gin.Context) {
	images, err := h.images.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]api.ImageView, 0, len(images))
	for i := range images {
		views = append(views, h.toView(&images[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Api) ListByOwner(c *gin.Context) {
	ownerID := c.Param("ownerId")

	images, err := h.images.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]api.ImageView, 0, len(images))
	for i := range images {
		views = append(views, h.toView(&images[i]))
	}
	c.JSON(http.StatusOK, views)
}

// Details returns one image record and records the view in the audit trail.
// A logging failure is reported but never fails the view itself.
func (h *Api) Details(c *gin.Context) {
	ownerID := c.Param("ownerId")
	imageID := c.Param("imageId")

	img, err := h.images.Get(c.Request.Context(), ownerID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	view := h.toView(img)

	err = h.logs.RecordView(c.Request.Context(),
		c.Query("viewerId"),
		c.Query("viewerName"),
		domain.ViewedImage{
			ImageID: img.ID,
			Caption: img.Caption,
			URI:     view.URI,
		})
	if err != nil {
		log.Error().Err(err).Str("imageId", img.ID).Msg("View succeeded but was not recorded")
	}

	c.JSON(http.StatusOK, view)
}

func (h *Api) Edit(c *gin.Context) {
	ownerID := c.Param("ownerId")
	imageID := c.Param("imageId")

	var edit api.ImageEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := h.images.Get(c.Request.Context(), ownerID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Only caption, description and date are mutable; ownership and id
	// stay as stored.
	img.Caption = edit.Caption
	img.Description = edit.Description
	img.DateTaken = edit.DateTaken

	if err := h.images.Update(c.Request.Context(), img); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toView(img))
}

func (h *Api) Delete(c *gin.Context) {
	ownerID := c.Param("ownerId")
	imageID := c.Param("imageId")

	img, err := h.images.Get(c.Request.Context(), ownerID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.images.Remove(c.Request.Context(), img); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAllForOwner sweeps an owner's whole partition. Called when the
// identity collaborator deactivates a user.
func (h *Api) DeleteAllForOwner(c *gin.Context) {
	ownerID := c.Param("ownerId")

	if err := h.images.RemoveAllForOwner(c.Request.Context(), ownerID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
