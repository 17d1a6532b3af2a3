package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"job-tracker/domain"
	"job-tracker/service"
)

// Pinger reports whether the backing database is reachable.
type Pinger func(ctx context.Context) error

type HTTPHandler struct {
	Service *service.ApplicationService
	Ping    Pinger
	Log     *logrus.Logger
}

// NewHTTPHandler registers the applications resource and the health check on router.
func NewHTTPHandler(router *gin.Engine, svc *service.ApplicationService, ping Pinger, log *logrus.Logger) {
	h := &HTTPHandler{Service: svc, Ping: ping, Log: log}

	router.GET("/healthz", h.Health)

	apps := router.Group("/applications")
	apps.GET("", h.List)
	apps.POST("", h.Create)
	apps.GET("/:id", h.Retrieve)
	apps.PUT("/:id", h.Replace)
	apps.PATCH("/:id", h.Patch)
	apps.DELETE("/:id", h.Delete)
}

func (h *HTTPHandler) List(c *gin.Context) {
	apps, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *HTTPHandler) Retrieve(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	app, err := h.Service.Retrieve(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *HTTPHandler) Create(c *gin.Context) {
	in, err := bindInput(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	app, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *HTTPHandler) Replace(c *gin.Context) {
	h.update(c, h.Service.Replace)
}

func (h *HTTPHandler) Patch(c *gin.Context) {
	h.update(c, h.Service.Patch)
}

type updateFunc func(ctx context.Context, id uint, in domain.ApplicationInput) (*domain.Application, error)

func (h *HTTPHandler) update(c *gin.Context, fn updateFunc) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	in, err := bindInput(c)
	if err != nil {
		// A missing record wins over a bad body.
		if _, lookupErr := h.Service.Retrieve(c.Request.Context(), id); lookupErr != nil {
			err = lookupErr
		}
		h.writeError(c, err)
		return
	}
	app, err := fn(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *HTTPHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Ping(ctx); err != nil {
		h.Log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID writes a 404 for ids that cannot name any record.
func (h *HTTPHandler) parseID(c *gin.Context) (uint, bool) {
	idStr := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(idStr, 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return 0, false
	}
	return uint(id), true
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "invalid JSON: " + e.err.Error() }

// bindInput treats an empty body as an empty payload. A value of the wrong
// JSON type becomes a field error.
func bindInput(c *gin.Context) (domain.ApplicationInput, error) {
	var in domain.ApplicationInput
	if c.Request.Body == nil {
		return in, nil
	}

	dec := json.NewDecoder(c.Request.Body)
	err := dec.Decode(&in)
	if errors.Is(err, io.EOF) {
		return in, nil
	}
	if err == nil {
		if extra := dec.Decode(new(json.RawMessage)); !errors.Is(extra, io.EOF) {
			return in, &badRequestError{err: errors.New("unexpected data after JSON body")}
		}
		return in, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		ve := domain.NewValidationError()
		ve.Add(typeErr.Field, typeMessage(typeErr))
		return in, ve
	}
	return in, &badRequestError{err: err}
}

func typeMessage(err *json.UnmarshalTypeError) string {
	if err.Type == reflect.TypeOf(domain.Date{}) {
		return "Date has wrong format. Use YYYY-MM-DD."
	}
	if err.Type.Kind() == reflect.String {
		return "Not a valid string."
	}
	return "Incorrect type."
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var bad *badRequestError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
	case errors.As(err, &bad):
		c.JSON(http.StatusBadRequest, gin.H{"error": bad.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
	default:
		h.Log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
