package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"recepcion/internal/drafts"
	"recepcion/internal/metrics"
	"recepcion/internal/receipt"
	"recepcion/internal/signature"
	"recepcion/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

const persistTimeout = 10 * time.Second

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	archive *receipt.Archive
	lister  *receipt.Lister
	details *receipt.Details
	policy  *receipt.Policy
	drafts  drafts.Store

	cookie *securecookie.SecureCookie
	now    func() time.Time

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	archive *receipt.Archive,
	lister *receipt.Lister,
	details *receipt.Details,
	draftStore drafts.Store,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if len(hashKey) == 0 {
		logger.Warn("COOKIE_HASH_KEY not set, draft cookies will not survive a restart")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(blockKey) == 0 {
		// nil disables cookie encryption, an empty key would fail every encode
		blockKey = nil
	}

	s := &Service{
		logger: logger,
		config: config,

		archive: archive,
		lister:  lister,
		details: details,
		policy:  receipt.DefaultPolicy(),
		drafts:  draftStore,

		cookie: securecookie.New(hashKey, blockKey),
		now:    time.Now,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates(s.policy)
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler without starting a listener.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleList, http.MethodGet)
	r.HandleFunc("/export.xlsx", s.handleExport, http.MethodGet)

	r.HandleFunc("/new", s.handleGetNew, http.MethodGet)
	r.HandleFunc("/new", s.handlePostNew, http.MethodPost)
	r.HandleFunc("/new/reset", s.handleResetNew, http.MethodPost)

	r.HandleFunc("/view/:id", s.handleView, http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", metrics.Handler(), http.MethodGet)

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates(policy *receipt.Policy) (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": types.DisplayDate,
		"required":   policy.Required,
		// Only PNG data URLs produced by the signature pad are trusted as image sources.
		"signatureURL": func(s string) template.URL {
			if !signature.IsDataURL(s) {
				return ""
			}
			return template.URL(s)
		},
		"fieldPath": func(section, field string, category types.Category) string {
			return receipt.FieldPath(types.Section(section), field, category)
		},
		"pageURL": func(search string, page int) string {
			v := url.Values{}
			if search != "" {
				v.Set("q", search)
			}
			v.Set("page", strconv.Itoa(page))
			return "/?" + v.Encode()
		},
		"exportURL": func(search string) string {
			if search == "" {
				return "/export.xlsx"
			}
			v := url.Values{}
			v.Set("q", search)
			return "/export.xlsx?" + v.Encode()
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
