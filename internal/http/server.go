// Package http provides the HTMX fragment server: page and partial
// handlers, request parsing and HX-Trigger response building.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mbh206/aifinacker/internal/cache"
	"github.com/mbh206/aifinacker/internal/core"
	"github.com/mbh206/aifinacker/internal/currency"
	"github.com/mbh206/aifinacker/internal/middleware/ratelimit"
	"github.com/mbh206/aifinacker/internal/middleware/security"
	"github.com/mbh206/aifinacker/internal/middleware/trace"
	"github.com/mbh206/aifinacker/internal/notify"
	"github.com/mbh206/aifinacker/internal/services"
	appweb "github.com/mbh206/aifinacker/web"
)

// Store is the read/write surface the handlers need beyond the budget
// service.
type Store interface {
	CreateAccount(ctx context.Context, a core.Account) error
	GetAccount(ctx context.Context, id string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)

	CreateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, accountID string, year, month int) ([]core.Transaction, error)
	ListCategories(ctx context.Context) ([]string, error)

	ListBudgets(ctx context.Context, accountID string) ([]core.Budget, error)
	ListAllBudgets(ctx context.Context) ([]core.Budget, error)

	MonthSpend(ctx context.Context, accountID string, year, month int) (core.Money, map[string]core.Money, error)
}

// EventPublisher publishes domain events to the message bus. A nil
// publisher disables eventing; mutations still succeed.
type EventPublisher interface {
	PublishTransactionChanged(ctx context.Context, msg *notify.TransactionChangedMessage) error
}

// monthOverview is the cached payload behind the month-overview partial.
type monthOverview struct {
	Year       int
	Month      int
	Total      core.Money
	ByCategory map[string]core.Money
}

type Server struct {
	http.Server

	templates *template.Template
	budgets   *services.BudgetService
	store     Store
	events    EventPublisher
	formatter *currency.Formatter
	currency  string

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	summaryCache  *cache.LRUCache[core.Summary]
	overviewCache *cache.LRUCache[monthOverview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, budgets *services.BudgetService, store Store, events EventPublisher, formatter *currency.Formatter, currencyCode string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		budgets:       budgets,
		store:         store,
		events:        events,
		formatter:     formatter,
		currency:      currencyCode,
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:        trace.NewMiddleware(security.ExtractClientIP),
		summaryCache:  cache.NewLRUCache[core.Summary](10, 2*time.Minute),
		overviewCache: cache.NewLRUCache[monthOverview](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/budgets", s.withRateLimit(s.handleCreateBudget))
	mux.HandleFunc("/budgets/update", s.withRateLimit(s.handleUpdateBudget))
	mux.HandleFunc("/budgets/delete", s.withRateLimit(s.handleDeleteBudget))
	mux.HandleFunc("/transactions", s.withRateLimit(s.handleCreateTransaction))
	mux.HandleFunc("/transactions/delete", s.withRateLimit(s.handleDeleteTransaction))
	mux.HandleFunc("/accounts", s.withRateLimit(s.handleCreateAccount))

	// UI partials
	mux.HandleFunc("/ui/budget-list", s.handleBudgetList)
	mux.HandleFunc("/ui/budget-summary", s.handleBudgetSummary)
	mux.HandleFunc("/ui/month-overview", s.handleMonthOverview)
	mux.HandleFunc("/ui/transactions", s.handleTransactionList)
	mux.HandleFunc("/ui/accounts", s.handleAccountList)

	headers := security.Headers(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(headers(mux))

	return s
}

// withRateLimit limits mutating requests per client IP.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := security.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next(w, r)
	}
}

// Shutdown stops background cleanup goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateSummary() {
	s.summaryCache.Delete(summaryCacheKey)
}

func (s *Server) invalidateOverview(accountID string, year, month int) {
	s.overviewCache.Delete(overviewCacheKey(accountID, year, month))
}
