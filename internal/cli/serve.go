package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/theia-art/theia/pkg/buildinfo"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/observability"
	"github.com/theia-art/theia/pkg/pipeline"
	"github.com/theia-art/theia/pkg/recipe"
)

const (
	defaultAddr       = "localhost:8080"
	maxPreviewSize    = 4096
	maxPreviewPoints  = 1 << 16
	maxRecipeBytes    = 64 << 10
	shutdownTimeout   = 5 * time.Second
	defaultPreviewPad = 16
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve grid previews over HTTP",
		Long: `Serve grid previews over HTTP.

Endpoints:
  GET  /grid.png   render a grid described by query parameters:
                   size, num, radial, angular, rings, offset, center,
                   trim, jitter, sparsify, seed, padding
  POST /grid.png   render a TOML recipe sent as the request body
  GET  /healthz    liveness check
  GET  /stats      job and cache counters as JSON

Rendered previews are cached in the theia cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			stats := observability.NewCounters()
			observability.SetPipelineHooks(stats)
			observability.SetCacheHooks(stats)
			defer observability.Reset()

			return c.runServe(cmd.Context(), addr, c.previewRouter(runner, stats))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the preview cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	printInfo("Serving previews on %s", StyleValue.Render("http://"+addr+"/grid.png"))

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// previewRouter builds the HTTP routes for the preview server. stats backs
// the /stats endpoint.
func (c *CLI) previewRouter(runner *pipeline.Runner, stats *observability.Counters) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats.Snapshot()); err != nil {
			loggerFromContext(req.Context()).Warn("write stats", "err", err)
		}
	})
	r.Get("/grid.png", func(w http.ResponseWriter, req *http.Request) {
		rec, pad, err := recipeFromQuery(req.URL.Query())
		if err != nil {
			writeError(w, req, err)
			return
		}
		servePreview(w, req, runner, rec, pad)
	})
	r.Post("/grid.png", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxRecipeBytes))
		if err != nil {
			writeError(w, req, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "read recipe body"))
			return
		}
		rec, err := recipe.Parse(body)
		if err != nil {
			writeError(w, req, err)
			return
		}
		pad, err := queryInt(req.URL.Query(), "padding", defaultPreviewPad)
		if err != nil {
			writeError(w, req, err)
			return
		}
		if err := checkPreviewLimits(rec, pad); err != nil {
			writeError(w, req, err)
			return
		}
		servePreview(w, req, runner, rec, pad)
	})
	return r
}

func servePreview(w http.ResponseWriter, req *http.Request, runner *pipeline.Runner, rec *recipe.Recipe, pad int) {
	data, hit, err := runner.Preview(req.Context(), pipeline.PreviewOptions{Recipe: rec, Padding: pad})
	if err != nil {
		writeError(w, req, err)
		return
	}
	status := "MISS"
	if hit {
		status = "HIT"
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cache", status)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// requestLogger tags a per-request logger with the request id, stores it in
// the request context and logs the outcome.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		l := c.Logger.With("req", middleware.GetReqID(req.Context()))
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req.WithContext(withLogger(req.Context(), l)))

		l.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// writeError maps coded errors to HTTP statuses: caller mistakes are 400,
// everything else 500.
func writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidRecipe, errors.ErrCodeInvalidColor, errors.ErrCodeRaggedGrid:
		status = http.StatusBadRequest
	}
	if status >= 500 {
		loggerFromContext(req.Context()).Error("preview failed", "err", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

// recipeFromQuery builds a recipe from preview query parameters, using the
// same defaults as the grid command.
func recipeFromQuery(q url.Values) (*recipe.Recipe, int, error) {
	var (
		o   = gridOpts{clamp: true}
		err error
	)
	ints := []struct {
		key string
		dst *int
		def int
	}{
		{"size", &o.size, 512},
		{"num", &o.num, 5},
		{"angular", &o.angular, 6},
		{"rings", &o.rings, 2},
		{"jitter", &o.jitter, 0},
		{"padding", &o.padding, defaultPreviewPad},
	}
	for _, f := range ints {
		if *f.dst, err = queryInt(q, f.key, f.def); err != nil {
			return nil, 0, err
		}
	}
	if o.radial, err = queryBool(q, "radial"); err != nil {
		return nil, 0, err
	}
	if o.center, err = queryBool(q, "center"); err != nil {
		return nil, 0, err
	}
	if o.trim, err = queryBool(q, "trim"); err != nil {
		return nil, 0, err
	}
	if o.offset, err = queryFloat(q, "offset"); err != nil {
		return nil, 0, err
	}
	if o.sparsify, err = queryFloat(q, "sparsify"); err != nil {
		return nil, 0, err
	}
	o.seed = 42
	if s := q.Get("seed"); s != "" {
		if o.seed, err = strconv.ParseUint(s, 10, 64); err != nil {
			return nil, 0, errors.New(errors.ErrCodeInvalidConfig, "seed must be an unsigned integer, got %q", s)
		}
	}

	rec, err := o.recipe()
	if err != nil {
		return nil, 0, err
	}
	if err := checkPreviewLimits(rec, o.padding); err != nil {
		return nil, 0, err
	}
	return rec, o.padding, nil
}

// checkPreviewLimits bounds the canvas and the number of points a preview
// request may ask for.
func checkPreviewLimits(rec *recipe.Recipe, padding int) error {
	b := rec.Builder
	if b.Size > maxPreviewSize {
		return errors.New(errors.ErrCodeInvalidConfig, "size %d exceeds the preview limit of %d", b.Size, maxPreviewSize)
	}
	if padding > maxPreviewSize {
		return errors.New(errors.ErrCodeInvalidConfig, "padding %d exceeds the preview limit of %d", padding, maxPreviewSize)
	}
	var over bool
	switch b.Kind {
	case recipe.KindRadial:
		over = b.Rings > 0 && b.Angular > 0 && b.Rings > maxPreviewPoints/b.Angular
	default:
		over = b.Num > 0 && b.Num > maxPreviewPoints/b.Num
	}
	if over {
		return errors.New(errors.ErrCodeInvalidConfig, "grid exceeds the preview limit of %d points", maxPreviewPoints)
	}
	return nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be an integer, got %q", key, s)
	}
	return v, nil
}

func queryFloat(q url.Values, key string) (float64, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be a number, got %q", key, s)
	}
	return v, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidConfig, "%s must be a boolean, got %q", key, s)
	}
	return v, nil
}
