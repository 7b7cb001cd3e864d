package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/locations/pkg/geocode"
	"github.com/manzanit0/locations/pkg/history"
	"github.com/manzanit0/locations/pkg/location"
	"github.com/manzanit0/locations/pkg/middleware"
)

const defaultHistorySize = 20

type LocationsController struct {
	locations location.Client
	geocoder  geocode.Client
	// history is nil when no database is configured.
	history history.Repository
}

func NewLocationsController(l location.Client, g geocode.Client, h history.Repository) *LocationsController {
	return &LocationsController{locations: l, geocoder: g, history: h}
}

func (ctrl *LocationsController) Register(r gin.IRoutes) {
	r.GET("/locations", ctrl.Search)
	r.GET("/locations/options", ctrl.Options)
	r.GET("/reverse", ctrl.Reverse)
	r.GET("/searches", ctrl.Searches)
}

func (ctrl *LocationsController) Search(c *gin.Context) {
	locations, ok := ctrl.search(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (ctrl *LocationsController) Options(c *gin.Context) {
	locations, ok := ctrl.search(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, location.ToOptions(locations))
}

func (ctrl *LocationsController) search(c *gin.Context) ([]location.Location, bool) {
	params := location.SearchParams{Query: c.Query("q")}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return nil, false
		}

		params.Limit = &limit
	}

	ctx := c.Request.Context()
	locations, err := ctrl.locations.Search(ctx, params)
	ctrl.record(c, params, len(locations), err != nil)

	switch {
	case errors.Is(err, location.ErrContractViolation):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": location.ErrInternal.Error()})
		return nil, false
	}

	if locations == nil {
		locations = []location.Location{}
	}

	return locations, true
}

func (ctrl *LocationsController) record(c *gin.Context, params location.SearchParams, resultCount int, failed bool) {
	if ctrl.history == nil {
		return
	}

	limit := location.DefaultLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	ctx := c.Request.Context()
	err := ctrl.history.Record(ctx, history.Entry{
		TraceID:     middleware.TraceIDFromContext(ctx),
		Query:       params.Query,
		Limit:       limit,
		ResultCount: resultCount,
		Failed:      failed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "unable to record search", "error", err.Error(), "query", params.Query)
	}
}

func (ctrl *LocationsController) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
		return
	}

	address, err := ctrl.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "reverse geocode", "error", err.Error(), "lat", lat, "lon", lon)
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to reverse geocode location"})
		return
	}

	c.JSON(http.StatusOK, address)
}

func (ctrl *LocationsController) Searches(c *gin.Context) {
	if ctrl.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search history is disabled"})
		return
	}

	n := defaultHistorySize
	if raw, ok := c.GetQuery("n"); ok {
		var err error
		if n, err = strconv.Atoi(raw); err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
	}

	entries, err := ctrl.history.ListRecent(c.Request.Context(), n)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "list searches", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": location.ErrInternal.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
