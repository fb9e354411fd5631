package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kenburns/pkg/buildinfo"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/pipeline"
	"github.com/matzehuels/kenburns/pkg/render"
)

// CacheHeader reports whether a plan was served from cache ("hit" or "miss").
const CacheHeader = "X-Cache"

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	for i, p := range opts.Images {
		resolved, err := s.resolveImage(p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		opts.Images[i] = resolved
	}
	opts.Logger = log.FromContext(r.Context())

	plan, hit, err := s.runner.PlanWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set(CacheHeader, cacheStatus(hit))
	w.Header().Set("Location", "/v1/plans/"+plan.ID)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.runner.LookupPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type frameResponse struct {
	PlanID     string                  `json:"plan_id"`
	Frame      render.Frame            `json:"frame"`
	Transition pipeline.PlanTransition `json:"transition"`
}

func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "frame number must be an integer"))
		return
	}
	plan, err := s.runner.LookupPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	pt, ok := plan.TransitionFor(n)
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "plan %s has no frame %d (has %d)", plan.ID, n, len(plan.Frames)))
		return
	}
	writeJSON(w, http.StatusOK, frameResponse{PlanID: plan.ID, Frame: plan.Frames[n], Transition: pt})
}

type transformResponse struct {
	Mode     string      `json:"mode"`
	Matrix   geom.Matrix `json:"matrix"`
	Viewport geom.Rect   `json:"viewport"`
	// Drawn is the rect's position in viewport space.
	Drawn geom.Rect `json:"drawn"`
}

// handleTransform computes the matrix for query parameters
// left, top, right, bottom (the rect), width, height (the viewport),
// image_width, image_height and optionally mode.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := floatParams{q: q}
	current := geom.Rect{
		Left:   p.get("left"),
		Top:    p.get("top"),
		Right:  p.get("right"),
		Bottom: p.get("bottom"),
	}
	viewport := geom.FromSize(p.get("width"), p.get("height"))
	image := geom.FromSize(p.get("image_width"), p.get("image_height"))
	if p.err != nil {
		writeError(w, r, p.err)
		return
	}

	mode := render.FitCenter
	if m := q.Get("mode"); m != "" {
		var err error
		if mode, err = render.ParseFitMode(m); err != nil {
			writeError(w, r, err)
			return
		}
	}

	m, err := render.Transform(current, image, viewport, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transformResponse{
		Mode:     mode.String(),
		Matrix:   m,
		Viewport: viewport,
		Drawn:    m.ApplyRect(current),
	})
}

// floatParams reads required float query parameters, keeping the first error.
type floatParams struct {
	q   url.Values
	err error
}

func (p *floatParams) get(name string) float64 {
	if p.err != nil {
		return 0
	}
	raw := p.q.Get(name)
	if raw == "" {
		p.err = errors.New(errors.ErrCodeInvalidInput, "missing query parameter %q", name)
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %q is not a number", name)
		return 0
	}
	return v
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
