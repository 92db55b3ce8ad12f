package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/gin-gonic/gin"

	"github.com/manzanit0/geofarm/pkg/geocode"
	"github.com/manzanit0/geofarm/pkg/geocodefarm"
	"github.com/manzanit0/geofarm/pkg/lookups"
	"github.com/manzanit0/geofarm/pkg/metrics"
	"github.com/manzanit0/geofarm/pkg/middleware"
	"github.com/manzanit0/geofarm/pkg/whttp"
)

const (
	OperationGeocode      = "geocode"
	OperationReverse      = "reverse"
	OperationPlace        = "place"
	OperationPlaceReverse = "place_reverse"
)

type Geocoder interface {
	Geocode(ctx context.Context, query string, opts ...geocodefarm.Option) (geocodefarm.Result, error)
	Reverse(ctx context.Context, q geocodefarm.ReverseQuery, opts ...geocodefarm.Option) (geocodefarm.Result, error)
}

var _ Geocoder = (*geocodefarm.Client)(nil)

type GeocodeController struct {
	geocoder Geocoder
	places   geocode.Client
	lookups  lookups.Repository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewGeocodeController(g Geocoder, places geocode.Client, l lookups.Repository, m *metrics.Metrics, logger *slog.Logger) *GeocodeController {
	if l == nil {
		l = lookups.Discard{}
	}

	return &GeocodeController{geocoder: g, places: places, lookups: l, metrics: m, logger: logger}
}

func (ctrl *GeocodeController) Register(r gin.IRouter) {
	r.GET("/geocode", ctrl.Geocode)
	r.GET("/reverse", ctrl.Reverse)
	r.GET("/place", ctrl.Place)
	r.GET("/place/reverse", ctrl.PlaceReverse)
	r.GET("/lookups", ctrl.Lookups)
}

func (ctrl *GeocodeController) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q query parameter", "kind": "invalid_input"})
		return
	}

	opts, exactlyOne, err := callOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "invalid_input"})
		return
	}

	t0 := time.Now()
	res, err := ctrl.geocoder.Geocode(c.Request.Context(), query, opts...)
	ctrl.observe(c, OperationGeocode, query, t0, len(res.Locations()), res.Found(), err)

	ctrl.respond(c, res, exactlyOne, err)
}

func (ctrl *GeocodeController) Reverse(c *gin.Context) {
	q, err := reverseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "invalid_input"})
		return
	}

	opts, exactlyOne, err := callOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "invalid_input"})
		return
	}

	t0 := time.Now()
	res, err := ctrl.geocoder.Reverse(c.Request.Context(), q, opts...)
	ctrl.observe(c, OperationReverse, q.CoordinateString(), t0, len(res.Locations()), res.Found(), err)

	ctrl.respond(c, res, exactlyOne, err)
}

func (ctrl *GeocodeController) Place(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q query parameter", "kind": "invalid_input"})
		return
	}

	t0 := time.Now()
	loc, err := ctrl.places.Geocode(query)
	ctrl.observe(c, OperationPlace, query, t0, placeCount(loc), loc != nil, err)

	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": loc})
}

func (ctrl *GeocodeController) PlaceReverse(c *gin.Context) {
	lat, lon, err := parseLatLon(c.Query("lat"), c.Query("lon"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "invalid_input"})
		return
	}

	t0 := time.Now()
	loc, err := ctrl.places.ReverseGeocode(lat, lon)
	q := geocodefarm.Point{Latitude: lat, Longitude: lon}.CoordinateString()
	ctrl.observe(c, OperationPlaceReverse, q, t0, placeCount(loc), loc != nil, err)

	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": loc})
}

func (ctrl *GeocodeController) Lookups(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100", "kind": "invalid_input"})
			return
		}

		limit = n
	}

	list, err := ctrl.lookups.ListRecent(c.Request.Context(), limit)
	if err != nil {
		ctrl.logger.ErrorContext(c.Request.Context(), "unable to list lookups", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list lookups", "kind": "internal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lookups": list})
}

func (ctrl *GeocodeController) respond(c *gin.Context, res geocodefarm.Result, exactlyOne bool, err error) {
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	if exactlyOne {
		loc, ok := res.First()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"result": nil})
			return
		}

		c.JSON(http.StatusOK, gin.H{"result": newLocationResponse(loc)})
		return
	}

	if !res.Found() {
		c.JSON(http.StatusOK, gin.H{"results": nil})
		return
	}

	results := make([]locationResponse, 0, len(res.Locations()))
	for _, loc := range res.Locations() {
		results = append(results, newLocationResponse(loc))
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (ctrl *GeocodeController) respondError(c *gin.Context, err error) {
	status, kind := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		ctrl.logger.ErrorContext(c.Request.Context(), "lookup failed", "error", err.Error(), "kind", kind)
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// ErrorStatus maps a lookup error onto an HTTP status and a stable kind.
func ErrorStatus(err error) (int, string) {
	if kind, ok := geocodefarm.KindOf(err); ok {
		switch kind {
		case geocodefarm.KindInvalidInput:
			return http.StatusBadRequest, kind.String()
		case geocodefarm.KindQuotaExceeded:
			return http.StatusTooManyRequests, kind.String()
		default:
			return http.StatusBadGateway, kind.String()
		}
	}

	var statusErr *whttp.StatusError
	switch {
	case errors.Is(err, whttp.ErrTimeout), errors.Is(err, geo.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, "upstream_status"
	case errors.Is(err, whttp.ErrMalformedBody), errors.Is(err, geocodefarm.ErrMalformedResponse):
		return http.StatusBadGateway, "malformed_response"
	case errors.Is(err, geocode.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (ctrl *GeocodeController) observe(c *gin.Context, operation, query string, t0 time.Time, count int, found bool, err error) {
	outcome := metrics.OutcomeFound
	var errorKind string
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		_, errorKind = ErrorStatus(err)
	case !found:
		outcome = metrics.OutcomeNotFound
	}

	if ctrl.metrics != nil {
		ctrl.metrics.ObserveLookup(operation, outcome, time.Since(t0))
	}

	ctx := c.Request.Context()
	traceID, _ := ctx.Value(middleware.CtxKeyTraceID).(string)

	err = ctrl.lookups.Record(ctx, &lookups.Lookup{
		Operation:   operation,
		Query:       query,
		Outcome:     outcome,
		ResultCount: count,
		ErrorKind:   errorKind,
		TraceID:     traceID,
	})
	if err != nil {
		ctrl.logger.ErrorContext(ctx, "unable to record lookup", "error", err.Error(), "operation", operation)
	}
}

func placeCount(loc *geocode.Location) int {
	if loc == nil {
		return 0
	}

	return 1
}
