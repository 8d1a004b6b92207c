// Package httpapi exposes the family tree over a JSON HTTP API.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ersonp/famitree/internal/application/handlers"
	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/services"
	"github.com/ersonp/famitree/internal/infrastructure/auth"
	"github.com/ersonp/famitree/internal/infrastructure/metrics"
)

// UserHeader names the user a request acts as. Requests without it are
// read-only.
const UserHeader = "X-Famitree-User"

// Deps are the collaborators the API needs. Metrics and Logger are optional.
type Deps struct {
	Store         *services.FamilyStore
	Auth          *auth.Authorizer
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	ReminderLimit int
	Now           func() time.Time
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type api struct {
	auth      *auth.Authorizer
	people    *handlers.PersonHandler
	relations *handlers.RelationshipHandler
	tree      *handlers.TreeHandler
	reminders *handlers.ReminderHandler
	logger    *slog.Logger
	now       func() time.Time
}

// NewRouter builds the gin engine with every route registered.
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/db
//	GET    /api/tree?root=&male=&q=
//	GET    /api/people
//	GET    /api/people/:id
//	GET    /api/people/:id/ancestors?levels=
//	GET    /api/branches/:id
//	GET    /api/summary?branch=
//	GET    /api/reminders?branch=&limit=
//	POST   /api/people
//	PATCH  /api/people/:id
//	DELETE /api/people/:id
//	POST   /api/relationships
//	DELETE /api/relationships/:id
func NewRouter(deps Deps) *gin.Engine {
	a := &api{
		auth:      deps.Auth,
		people:    handlers.NewPersonHandler(deps.Store),
		relations: handlers.NewRelationshipHandler(deps.Store),
		tree:      handlers.NewTreeHandler(deps.Store),
		reminders: handlers.NewReminderHandler(deps.Store, deps.ReminderLimit),
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.auth == nil {
		a.auth = auth.New(nil, "", false)
	}

	r := gin.New()
	r.Use(gin.Recovery(), a.logRequests(deps.Metrics), a.identify)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Store.Snapshot().Version})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	group := r.Group("/api")
	group.GET("/db", a.handleDB)
	group.GET("/tree", a.handleTree)
	group.GET("/people", a.handleListPeople)
	group.GET("/people/:id", a.handleShowPerson)
	group.GET("/people/:id/ancestors", a.handleAncestors)
	group.GET("/branches/:id", a.handleBranch)
	group.GET("/summary", a.handleSummary)
	group.GET("/reminders", a.handleReminders)

	write := group.Group("", a.requireEditor)
	write.POST("/people", a.handleAddPerson)
	write.PATCH("/people/:id", a.handleUpdatePerson)
	write.DELETE("/people/:id", a.handleDeletePerson)
	write.POST("/relationships", a.handleAddRelationship)
	write.DELETE("/relationships/:id", a.handleRemoveRelationship)

	return r
}

// logRequests logs each request at debug level and records its latency.
func (a *api) logRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if m != nil {
			m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), elapsed)
		}
		a.logger.Debug("http request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"elapsed", elapsed,
		)
	}
}

// identify resolves UserHeader against users.yaml.
func (a *api) identify(c *gin.Context) {
	id := c.GetHeader(UserHeader)
	if id == "" {
		c.Next()
		return
	}
	u, ok := a.auth.Lookup(id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown user " + strconv.Quote(id)})
		return
	}
	c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), u))
	c.Next()
}

// requireEditor rejects writes from users who may not edit. The store would
// drop them silently; the API reports it instead.
func (a *api) requireEditor(c *gin.Context) {
	u, ok := auth.FromContext(c.Request.Context())
	if !ok || !u.Privileged {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "editing requires an admin user"})
		return
	}
	c.Next()
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, handlers.ErrPersonNotFound), errors.Is(err, handlers.ErrRelationshipNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, entities.NewValidationError(key, "must be an integer, got %q", v)
	}
	return n, nil
}
