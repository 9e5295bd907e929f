package ginserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"trailblaze/internal/app/authz"
	campgroundapp "trailblaze/internal/app/campgrounds"
	"trailblaze/internal/app/commands"
	"trailblaze/internal/app/dto"
	"trailblaze/internal/app/forms"
	"trailblaze/internal/app/queries"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
)

const maxPhotoSizeBytes int64 = 10 * 1024 * 1024

type CampgroundHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type CampgroundHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h CampgroundHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campgrounds: queries unavailable"})
		return
	}
	result, err := queries.Ask[campgroundapp.ListCampgroundsQuery, *dto.CampgroundCollection](c.Request.Context(), h.Queries, campgroundapp.ListCampgroundsQuery{})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CampgroundHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campgrounds: queries unavailable"})
		return
	}
	query := campgroundapp.GetCampgroundQuery{CampgroundID: c.Param("id")}
	result, err := queries.Ask[campgroundapp.GetCampgroundQuery, *dto.CampgroundDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CampgroundHandler) Create(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campgrounds: commands unavailable"})
		return
	}

	form, photos, _, err := parseCampgroundForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := campgroundapp.CreateCampgroundCommand{
		OwnerID: p.ID,
		Form:    form,
		Photos:  photos,
	}
	result, err := commands.Dispatch[campgroundapp.CreateCampgroundCommand, *dto.Campground](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/campgrounds/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h CampgroundHandler) Update(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campgrounds: commands unavailable"})
		return
	}

	form, photos, removals, err := parseCampgroundForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := campgroundapp.UpdateCampgroundCommand{
		CampgroundID: c.Param("id"),
		ActorID:      p.ID,
		Form:         form,
		NewPhotos:    photos,
		RemovePhotos: removals,
	}
	result, err := commands.Dispatch[campgroundapp.UpdateCampgroundCommand, *dto.Campground](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CampgroundHandler) Delete(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campgrounds: commands unavailable"})
		return
	}

	cmd := campgroundapp.DeleteCampgroundCommand{
		CampgroundID: c.Param("id"),
		ActorID:      p.ID,
	}
	if _, err := commands.Dispatch[campgroundapp.DeleteCampgroundCommand, *struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseCampgroundForm reads the multipart submission: text fields, any number
// of "photos" files, and repeated "deletePhotos" locators on updates.
func parseCampgroundForm(c *gin.Context) (forms.CampgroundForm, []campgroundapp.PhotoUpload, []string, error) {
	mpForm, err := c.MultipartForm()
	if err != nil {
		return forms.CampgroundForm{}, nil, nil, fmt.Errorf("multipart form is required: %w", err)
	}

	form := forms.CampgroundForm{
		Title:       formValue(mpForm, "title"),
		Location:    formValue(mpForm, "location"),
		Description: formValue(mpForm, "description"),
	}
	if raw := formValue(mpForm, "price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return forms.CampgroundForm{}, nil, nil, fmt.Errorf("price must be a number: %w", err)
		}
		form.Price = price
	}

	photos, err := readPhotoUploads(mpForm.File["photos"])
	if err != nil {
		return forms.CampgroundForm{}, nil, nil, err
	}

	var removals []string
	for _, raw := range mpForm.Value["deletePhotos"] {
		if name := strings.TrimSpace(raw); name != "" {
			removals = append(removals, name)
		}
	}
	return form, photos, removals, nil
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func readPhotoUploads(headers []*multipart.FileHeader) ([]campgroundapp.PhotoUpload, error) {
	uploads := make([]campgroundapp.PhotoUpload, 0, len(headers))
	for _, header := range headers {
		if header.Size <= 0 {
			return nil, fmt.Errorf("photo %q is empty", header.Filename)
		}
		if header.Size > maxPhotoSizeBytes {
			return nil, fmt.Errorf("photo %q too large (max %d MB)", header.Filename, maxPhotoSizeBytes/1024/1024)
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot open photo %q: %w", header.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(file, maxPhotoSizeBytes+1024))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot read photo %q: %w", header.Filename, err)
		}
		contentType := http.DetectContentType(data)
		if !isAllowedImageType(contentType) {
			return nil, fmt.Errorf("unsupported content type for %q: %s", header.Filename, contentType)
		}
		uploads = append(uploads, campgroundapp.PhotoUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Reader:      bytes.NewReader(data),
		})
	}
	return uploads, nil
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func (h CampgroundHandler) handleError(c *gin.Context, err error) {
	status := statusForError(err)
	if h.Logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if p, ok := currentPrincipal(c); ok {
			fields = append(fields, "actor_id", p.ID)
		}
		h.Logger.Warn("campground request failed", fields...)
	}
	respondError(c, status, err)
}

// statusForError maps the application error taxonomy onto HTTP statuses.
// Format checks come before existence, authorization failures are terminal,
// and gateway faults surface as 502 rather than hiding behind a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domaincampground.ErrMalformedID),
		errors.Is(err, domainreview.ErrMalformedID):
		return http.StatusBadRequest
	case isValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domaincampground.ErrNotFound),
		errors.Is(err, domainreview.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, authz.ErrNotOwner),
		errors.Is(err, authz.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, campgroundapp.ErrGeocode),
		errors.Is(err, campgroundapp.ErrPhotoStore):
		return http.StatusBadGateway
	case errors.Is(err, uow.ErrUnitOfWorkMissing):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	var verr *forms.ValidationError
	return errors.As(err, &verr)
}

func respondError(c *gin.Context, status int, err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ CampgroundHTTP = CampgroundHandler{}
