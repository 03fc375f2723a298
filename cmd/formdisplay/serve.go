package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	formdisplay "github.com/goliatone/go-formdisplay"
	"github.com/goliatone/go-formdisplay/components/geo"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/render"
	"github.com/goliatone/go-formdisplay/pkg/renderers/html"
	"github.com/goliatone/go-formdisplay/pkg/validation"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		f    formFlags
		addr string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reference data, metrics, and a form preview",
		Long: `Start an HTTP server with:
  /api/countries and /api/cities  reference lists from the embedded dataset
  /metrics                        Prometheus metrics
  /form                           the form (with --form or --form-id); POST validates
  /form/live                      websocket session pushing visibility and errors per edit
  /assets/                        the stylesheet used by the form

Examples:
  formdisplay serve
  formdisplay serve --form form.yaml --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			var form *model.Form
			if f.form != "" || f.formID != "" {
				loaded, err := a.loadForm(ctx, f)
				if err != nil {
					return err
				}
				form = &loaded
			}
			handler, err := a.serveMux(form, f)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			a.logger.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (a *app) serveMux(form *model.Form, f formFlags) (http.Handler, error) {
	mux := http.NewServeMux()
	if _, err := geo.RegisterRoutes(mux, "", geo.WithDefaultLocale(a.cfg.Locale)); err != nil {
		return nil, err
	}
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(formdisplay.AssetsFS())))
	// Every brand shares the stylesheet; the theme supplies the variables.
	mux.HandleFunc("/assets/themes/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/theme.css") {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, formdisplay.AssetsFS(), html.StylesheetName)
	})

	if form != nil {
		renderers, err := formdisplay.NewRenderers()
		if err != nil {
			return nil, err
		}
		validators, err := a.validators()
		if err != nil {
			return nil, err
		}
		fh := &formHandler{app: a, form: *form, flags: f, validators: validators, renderers: renderers}
		mux.HandleFunc("GET /form", fh.show)
		mux.HandleFunc("POST /form", fh.submit)
		mux.HandleFunc("GET /form/live", fh.live)
	}
	return mux, nil
}

type formHandler struct {
	app        *app
	form       model.Form
	flags      formFlags
	validators *validation.Registry
	renderers  *render.Registry
}

// session starts a fresh session per request; nothing is kept between
// requests.
func (h *formHandler) session(r *http.Request) (*orchestrator.Session, error) {
	opts, err := h.app.sessionOptions(h.flags, h.validators)
	if err != nil {
		return nil, err
	}
	opts = append(opts, orchestrator.WithLocale(h.locale(r)))
	return orchestrator.New(h.form, opts...), nil
}

func (h *formHandler) locale(r *http.Request) string {
	if lang := r.FormValue("lang"); lang != "" {
		return lang
	}
	return h.app.cfg.Locale
}

func (h *formHandler) show(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	readOnly, _ := strconv.ParseBool(r.URL.Query().Get("read_only"))
	h.write(w, r, s, readOnly)
}

// submit applies the posted values, validates them, and shows the answers
// when they are valid or the form with its errors when not.
func (h *formHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.session(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	applyPosted(s, h.form.Questions, r, h.app.logger)
	res := s.Validate()
	if !res.Valid {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	h.write(w, r, s, res.Valid)
}

// write renders s with the renderer the Accept header asks for: the HTML form
// by default, or the plain text answer sheet for text/plain.
func (h *formHandler) write(w http.ResponseWriter, r *http.Request, s *orchestrator.Session, readOnly bool) {
	renderer, err := h.renderers.Negotiate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}
	themeCfg, err := formdisplay.ThemeConfig(r.URL.Query().Get("theme"), r.URL.Query().Get("variant"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := formdisplay.RenderSession(r.Context(), renderer, s, formdisplay.RenderOptions{
		ReadOnly: readOnly,
		Theme:    themeCfg,
		Action:   "/form",
	})
	if err != nil {
		h.app.logger.Error("render form", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Add("Vary", "Accept")
	_, _ = w.Write(out)
}

// applyPosted copies posted values into s using the input names the html
// renderer emits. Values the session refuses are logged and skipped.
func applyPosted(s *orchestrator.Session, questions []model.Question, r *http.Request, logger *slog.Logger) {
	for _, q := range questions {
		if q.Type.IsDisplayOnly() || !s.IsVisible(q.ID) {
			continue
		}
		var err error
		switch {
		case q.Type == model.QuestionTypeCheckbox:
			checked := r.PostForm[q.ID+"[]"]
			for _, opt := range q.Options {
				if err = s.ToggleOption(q.ID, opt.ID, slices.Contains(checked, opt.ID)); err != nil {
					break
				}
			}
		case q.Type.IsSingleChoice():
			err = s.SelectOption(q.ID, r.PostForm.Get(q.ID))
		case q.Type.IsEntity():
			if v := r.PostForm.Get(q.ID); v != "" {
				err = s.SetEntity(q.ID, v, v)
			}
		case q.Type == model.QuestionTypeFile:
			continue
		default:
			if _, ok := r.PostForm[q.ID]; ok {
				err = s.SetValue(q.ID, r.PostForm.Get(q.ID))
			}
		}
		if err != nil {
			logger.Warn("ignoring posted value", "question", q.ID, "error", err)
		}
	}
}
