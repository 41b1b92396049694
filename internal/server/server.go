package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/ainvaltin/httpsrv"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/cryptograss/stonemint/internal/logger"
	_ "github.com/cryptograss/stonemint/internal/server/docs"
	"github.com/cryptograss/stonemint/pkg/showminting"
	"github.com/cryptograss/stonemint/pkg/showminting/chain"
)

//go:generate swag init --generalInfo server.go --output docs --outputTypes go

// @title Stone minting form API
// @version 1.0
// @description Makes shows available for stone minting on the set stone contract.
// @BasePath /api/v1

var log = logger.CreateForPackage()

const maxFormSize = 64 * 1024

var (
	//go:embed templates/form.html
	formHTML string

	formTemplate = template.Must(template.New("form").Parse(formHTML))
)

type (
	Server struct {
		adapter   *showminting.Adapter
		sanitizer *bluemonday.Policy
		rw        *ResponseWriter
	}

	pageData struct {
		ExplorerLink string
		Contract     string
		ChainName    string
		ChainID      uint64
		ProjectID    string
		Values       map[string]string
		Result       *showminting.TransactionHandle
		Errors       []template.HTML
	}

	recoveryLogger struct{}
)

func New(adapter *showminting.Adapter) (*Server, error) {
	if adapter == nil {
		return nil, errors.New("adapter is nil")
	}
	return &Server{
		adapter:   adapter,
		sanitizer: bluemonday.StrictPolicy(),
		rw:        &ResponseWriter{LogErr: log.Error},
	}, nil
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(
		handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{})),
		logRequests,
	)

	router.HandleFunc("/", s.formPage).Methods(http.MethodGet)
	router.HandleFunc("/", s.submitForm).Methods(http.MethodPost)

	apiRouter := router.PathPrefix("/api").Subrouter()
	// content-type needs to be explicitly allowed, without it the header is
	// not allowed and cors filter is not applied
	apiRouter.Use(handlers.CORS(handlers.AllowedHeaders([]string{ContentType})))

	apiV1 := apiRouter.PathPrefix("/v1").Subrouter()
	apiV1.HandleFunc("/contract", s.contractInfo).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/shows", s.submitShow).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/secrets/hash", s.hashSecrets).Methods(http.MethodPost, http.MethodOptions)

	apiV1.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/api/v1/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return router
}

// Run serves the form until ctx is cancelled.
func Run(ctx context.Context, addr string, s *Server) error {
	log.Info("serving stone minting form on %s", addr)
	return httpsrv.Run(ctx, http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: time.Second,
		// submission waits for the RPC node to accept the transaction
		WriteTimeout: time.Minute,
		IdleTimeout:  30 * time.Second,
	}, httpsrv.ShutdownTimeout(5*time.Second))
}

func (s *Server) formPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.newPageData(nil))
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		data := s.newPageData(nil)
		data.Errors = s.errorMessages(fmt.Errorf("reading form: %w", err))
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data := s.newPageData(r.PostForm)
	handle, err := s.adapter.CollectAndSubmit(r.Context(), r.PostForm)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusBadGateway {
			log.Error("form submission failed: %v", err)
		}
		data.Errors = s.errorMessages(err)
		s.renderPage(w, status, data)
		return
	}
	data.Result = handle
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) newPageData(form showminting.FieldSource) *pageData {
	cfg := s.adapter.Config()
	data := &pageData{
		ExplorerLink: s.adapter.ExplorerLink(),
		Contract:     cfg.ContractAddress,
		ChainName:    cfg.ChainName,
		ChainID:      cfg.ChainID,
		ProjectID:    cfg.ProjectID,
		Values:       map[string]string{},
	}
	if form != nil {
		// secrets are never echoed back
		for _, f := range []string{showminting.FieldArtistID, showminting.FieldBlockHeight, showminting.FieldShapes, showminting.FieldNumberOfSets, showminting.FieldStonePriceEth} {
			data.Values[f] = form.Get(f)
		}
	}
	return data
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data *pageData) {
	w.Header().Set(ContentType, TextHtml)
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, data); err != nil {
		log.Error("rendering form page: %v", err)
	}
}

// errorMessages flattens joined errors into sanitized HTML fragments, the
// error text may come from the RPC node.
func (s *Server) errorMessages(err error) []template.HTML {
	var msgs []template.HTML
	for _, e := range flattenErrors(err) {
		msgs = append(msgs, template.HTML(s.sanitizer.Sanitize(e.Error())))
	}
	return msgs
}

func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var errs []error
		for _, e := range joined.Unwrap() {
			errs = append(errs, flattenErrors(e)...)
		}
		return errs
	}
	return []error{err}
}

// statusOf maps form validation errors to 400, everything else happened
// while talking to the network.
func statusOf(err error) int {
	var fe *showminting.FieldError
	if errors.As(err, &fe) || errors.Is(err, chain.ErrOutOfRange) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func logRequests(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Debug("%s %s %d %dB %s", p.Request.Method, p.URL.Path, p.StatusCode, p.Size, time.Since(p.TimeStamp))
	})
}

func (recoveryLogger) Println(args ...interface{}) {
	log.Error("panic while serving request: %v", fmt.Sprint(args...))
}
