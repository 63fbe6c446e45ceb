// Package server exposes the dues ledger over HTTP.
//
// Every request reads a fresh snapshot of the store and recomputes the
// balances. Nothing is cached between requests.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/dues"
)

// Options configures a Server.
type Options struct {
	Store      dues.Source // Store is read on every request. It may also append records.
	Policy     dues.BillingPolicy
	AdminToken string // AdminToken authenticates the write routes. Empty disables them.
	Logger     *zap.Logger
}

// Server is the HTTP presentation of the ledger.
type Server struct {
	store   dues.Source
	policy  dues.BillingPolicy
	token   string
	logger  *zap.Logger
	metrics *metrics
	today   func() dues.Date
	engine  *gin.Engine
}

// New creates a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:   opts.Store,
		policy:  opts.Policy,
		token:   opts.AdminToken,
		logger:  logger,
		metrics: newMetrics(),
		today:   dues.Today,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.metrics.instrument())
	r.Use(s.accessLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))

	v1 := r.Group("/v1")
	v1.GET("/balances", s.getBalances)
	v1.GET("/units/:unit", s.getUnit)
	v1.GET("/orphans", s.getOrphans)
	v1.GET("/expenses", s.getExpenses)

	admin := v1.Group("")
	admin.Use(s.adminRequired())
	admin.POST("/payments", s.postPayment)
	admin.POST("/expenses", s.postExpense)
	return r
}

// Handler returns the http.Handler of the server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// accessLog logs every request at debug level, and server errors at error level.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Error("request failed", append(fields, zap.Strings("errors", c.Errors.Errors()))...)
			return
		}
		s.logger.Debug("request", fields...)
	}
}

// adminRequired rejects requests without the admin bearer token.
func (s *Server) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.session(c.GetHeader("Authorization"))
		if !session.CanRecord() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": dues.ErrNotAdmin.Error()})
			return
		}
		c.Next()
	}
}

// session returns the session of an Authorization header.
func (s *Server) session(header string) dues.Session {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || s.token == "" || token == "" {
		return dues.Session{Role: dues.RoleViewer}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return dues.Session{Role: dues.RoleViewer}
	}
	return dues.Session{Role: dues.RoleAdmin, Authenticated: true}
}

// policyAt returns the billing policy as of the as_of query parameter, today if missing.
func (s *Server) policyAt(c *gin.Context) (dues.BillingPolicy, bool) {
	p := s.policy
	if raw := c.Query("as_of"); raw != "" {
		day, err := dues.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return p, false
		}
		p.AsOf = day
	}
	return p.At(s.today()), true
}

// unavailable answers 503: never zero balances when the source cannot be read.
func (s *Server) unavailable(c *gin.Context, op string, err error) {
	s.metrics.storeErrors.WithLabelValues(op).Inc()
	_ = c.Error(err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"available": false, "error": err.Error()})
}

func (s *Server) report(c *gin.Context) (dues.Reconciliation, bool) {
	policy, ok := s.policyAt(c)
	if !ok {
		return dues.Reconciliation{}, false
	}
	r, err := dues.BuildReport(c.Request.Context(), s.store, policy)
	if err != nil {
		s.unavailable(c, "report", err)
		return r, false
	}
	s.metrics.orphans.Set(float64(len(r.Orphans)))
	s.metrics.outstanding.Set(r.Totals.Outstanding.InexactFloat64())
	for _, p := range r.Orphans {
		s.logger.Warn("unmatched payment", zap.String("unit", p.Unit), zap.String("date", p.PaidAt.String()), zap.String("amount", p.Value().String()))
	}
	return r, true
}

func (s *Server) getBalances(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) getOrphans(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "orphans": r.Orphans, "total": r.Totals.Orphaned})
}

func (s *Server) getUnit(c *gin.Context) {
	policy, ok := s.policyAt(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	snap, err := dues.Snapshot(ctx, s.store)
	if err != nil {
		s.unavailable(c, "read snapshot", err)
		return
	}
	units, err := snap.Roster(ctx)
	if err != nil {
		s.unavailable(c, "read roster", dues.Unavailable("read roster", err))
		return
	}
	unit, found := dues.FindUnit(units, c.Param("unit"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown unit " + c.Param("unit")})
		return
	}
	payments, err := snap.Payments(ctx)
	if err != nil {
		s.unavailable(c, "read payments", dues.Unavailable("read payments", err))
		return
	}
	c.JSON(http.StatusOK, dues.NewStatement(unit, payments, policy))
}

func (s *Server) getExpenses(c *gin.Context) {
	src, ok := s.store.(dues.ExpenseSource)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "the store has no expenses"})
		return
	}
	var from, to dues.Date
	for name, d := range map[string]*dues.Date{"from": &from, "to": &to} {
		if raw := c.Query(name); raw != "" {
			day, err := dues.ParseDate(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			*d = day
		}
	}
	expenses, err := src.Expenses(c.Request.Context())
	if err != nil {
		s.unavailable(c, "read expenses", dues.Unavailable("read expenses", err))
		return
	}
	c.JSON(http.StatusOK, dues.SummarizeExpenses(expenses, from, to))
}

// paymentRequest is the body of POST /v1/payments.
type paymentRequest struct {
	Unit    string    `json:"unit"`
	Date    dues.Date `json:"date"`
	Amount  any       `json:"amount"`
	Mode    string    `json:"mode"`
	Months  string    `json:"months"`
	BillRef string    `json:"billRef"`
}

// expenseRequest is the body of POST /v1/expenses.
type expenseRequest struct {
	Date        dues.Date `json:"date"`
	Month       string    `json:"month"`
	Head        string    `json:"head"`
	Description string    `json:"description"`
	Amount      any       `json:"amount"`
	Mode        string    `json:"mode"`
}

// bind decodes the JSON body keeping numbers exact.
func bind(c *gin.Context, v any) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return false
	}
	return true
}

// recordError answers the error of a Record function.
func (s *Server) recordError(c *gin.Context, op string, err error) {
	var verr *dues.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, dues.ErrStoreUnavailable):
		s.unavailable(c, op, err)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) postPayment(c *gin.Context) {
	store, ok := s.store.(dues.PaymentAppender)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "the store is read-only"})
		return
	}
	var req paymentRequest
	if !bind(c, &req) {
		return
	}
	rec, err := dues.RecordPayment(c.Request.Context(), store, dues.PaymentRecord{
		Unit:    req.Unit,
		PaidAt:  req.Date,
		Amount:  req.Amount,
		Mode:    req.Mode,
		Months:  req.Months,
		BillRef: req.BillRef,
	})
	if err != nil {
		s.recordError(c, "append payment", err)
		return
	}
	s.metrics.recordsTotal.WithLabelValues("payment").Inc()
	s.logger.Info("payment recorded", zap.String("id", rec.ID), zap.String("unit", rec.Unit), zap.String("amount", rec.Value().String()))
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) postExpense(c *gin.Context) {
	store, ok := s.store.(dues.ExpenseAppender)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "the store is read-only"})
		return
	}
	var req expenseRequest
	if !bind(c, &req) {
		return
	}
	rec, err := dues.RecordExpense(c.Request.Context(), store, dues.ExpenseRecord{
		PaidAt:      req.Date,
		Month:       req.Month,
		Head:        req.Head,
		Description: req.Description,
		Amount:      req.Amount,
		Mode:        req.Mode,
	})
	if err != nil {
		s.recordError(c, "append expense", err)
		return
	}
	s.metrics.recordsTotal.WithLabelValues("expense").Inc()
	s.logger.Info("expense recorded", zap.String("id", rec.ID), zap.String("head", rec.Head), zap.String("amount", rec.Value().String()))
	c.JSON(http.StatusCreated, rec)
}
