package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prateekjain24/pmkit/internal/abtest"
	"github.com/prateekjain24/pmkit/internal/finance"
	"github.com/prateekjain24/pmkit/internal/market"
	"github.com/prateekjain24/pmkit/internal/migrate"
	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/rice"
	"github.com/prateekjain24/pmkit/internal/store"
)

// historyLimit caps saved records per calculator kind.
const historyLimit = 50

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// persist saves a result under the given kind when requested and returns the
// new record ID. Persistence failures are logged, not surfaced: the
// calculation itself succeeded.
func (h *Handler) persist(r *http.Request, save bool, kind store.Kind, name string, payload any) string {
	if !save || h.store == nil {
		return ""
	}
	rec, err := h.store.SaveCalculation(r.Context(), kind, name, payload)
	if err != nil {
		zap.L().Error("save calculation", zap.String("kind", string(kind)), zap.Error(err))
		return ""
	}
	if _, err := h.store.Prune(r.Context(), kind, historyLimit); err != nil {
		zap.L().Warn("prune history", zap.String("kind", string(kind)), zap.Error(err))
	}
	return rec.ID
}

type riceScoreRequest struct {
	Name       string  `json:"name"`
	Reach      float64 `json:"reach"`
	Impact     float64 `json:"impact"`
	Confidence float64 `json:"confidence"`
	Effort     float64 `json:"effort"`
	Save       bool    `json:"save"`
}

type riceScoreResponse struct {
	Score    float64       `json:"score"`
	Category rice.Category `json:"category"`
	Insights []string      `json:"insights"`
	ID       string        `json:"id,omitempty"`
}

func (h *Handler) riceScore(w http.ResponseWriter, r *http.Request) {
	var req riceScoreRequest
	if !decode(w, r, &req) {
		return
	}

	score, err := rice.Calculate(req.Reach, req.Impact, req.Confidence, req.Effort)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := riceScoreResponse{
		Score:    score,
		Category: rice.Categorize(score),
		Insights: rice.Insights(req.Reach, req.Impact, req.Confidence, req.Effort, score),
	}
	resp.ID = h.persist(r, req.Save, store.KindRice, req.Name, model.RiceScore{
		Name:       req.Name,
		Reach:      req.Reach,
		Impact:     req.Impact,
		Confidence: req.Confidence,
		Effort:     req.Effort,
		Score:      score,
	})
	writeJSON(w, http.StatusOK, resp)
}

type riceCompareRequest struct {
	A model.RiceScore `json:"a"`
	B model.RiceScore `json:"b"`
}

func (h *Handler) riceCompare(w http.ResponseWriter, r *http.Request) {
	var req riceCompareRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, rice.Compare(req.A, req.B))
}

type topDownRequest struct {
	TAM           float64            `json:"tam"`
	SamPercentage float64            `json:"sam_percentage"`
	SomPercentage float64            `json:"som_percentage"`
	Params        model.MarketParams `json:"params"`
	Name          string             `json:"name"`
	Save          bool               `json:"save"`
}

type marketResponse struct {
	Calculation *model.TamCalculation `json:"calculation"`
	Warnings    []string              `json:"warnings,omitempty"`
	ID          string                `json:"id,omitempty"`
}

func (h *Handler) marketTopDown(w http.ResponseWriter, r *http.Request) {
	var req topDownRequest
	if !decode(w, r, &req) {
		return
	}

	calc, err := market.TopDown(req.TAM, req.SamPercentage, req.SomPercentage, req.Params)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := marketResponse{
		Calculation: calc,
		Warnings:    market.ValidateMarketSizes(calc.TAM, calc.SAM, calc.SOM),
	}
	resp.ID = h.persist(r, req.Save, store.KindMarket, req.Name, calc)
	writeJSON(w, http.StatusOK, resp)
}

type bottomUpRequest struct {
	Segments          []model.MarketSegment `json:"segments"`
	Params            model.MarketParams    `json:"params"`
	CompetitorCount   int                   `json:"competitor_count"`
	MarketShareTarget float64               `json:"market_share_target"`
	Name              string                `json:"name"`
	Save              bool                  `json:"save"`
}

func (h *Handler) marketBottomUp(w http.ResponseWriter, r *http.Request) {
	var req bottomUpRequest
	if !decode(w, r, &req) {
		return
	}

	calc, err := market.BottomUp(req.Segments, req.Params, req.CompetitorCount, req.MarketShareTarget)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := marketResponse{
		Calculation: calc,
		Warnings:    market.ValidateMarketSizes(calc.TAM, calc.SAM, calc.SOM),
	}
	resp.ID = h.persist(r, req.Save, store.KindMarket, req.Name, calc)
	writeJSON(w, http.StatusOK, resp)
}

type roiRequest struct {
	model.RoiCalculation
	Save bool `json:"save"`
}

type roiResponse struct {
	*model.RoiResult
	ID string `json:"id,omitempty"`
}

func (h *Handler) roiCalculate(w http.ResponseWriter, r *http.Request) {
	var req roiRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := finance.Calculate(req.RoiCalculation)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := roiResponse{RoiResult: result}
	resp.ID = h.persist(r, req.Save, store.KindRoi, req.Name, result)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) abtestSampleSize(w http.ResponseWriter, r *http.Request) {
	var req model.SampleSizeInput
	if !decode(w, r, &req) {
		return
	}

	result, err := abtest.SampleSize(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type mdeRequest struct {
	SampleSize   int                 `json:"sample_size"`
	BaselineRate float64             `json:"baseline_rate"`
	Confidence   float64             `json:"confidence"`
	Power        float64             `json:"power"`
	Direction    model.TestDirection `json:"direction"`
}

func (h *Handler) abtestMDE(w http.ResponseWriter, r *http.Request) {
	var req mdeRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := abtest.MDE(req.SampleSize, req.BaselineRate, req.Confidence, req.Power, req.Direction)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type significanceRequest struct {
	model.TestConfig
	Save bool `json:"save"`
}

type significanceResponse struct {
	Results []model.TestResult `json:"results"`
	ID      string             `json:"id,omitempty"`
}

func (h *Handler) abtestSignificance(w http.ResponseWriter, r *http.Request) {
	var req significanceRequest
	if !decode(w, r, &req) {
		return
	}

	results, err := abtest.Evaluate(req.TestConfig)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := significanceResponse{Results: results}
	resp.ID = h.persist(r, req.Save, store.KindABTest, req.Name, results)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{
		Kind: store.Kind(r.URL.Query().Get("kind")),
		Name: r.URL.Query().Get("name"),
	}

	records, err := h.store.ListCalculations(r.Context(), filter)
	if err != nil {
		zap.L().Error("list history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list history")
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetCalculation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "calculation not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCalculation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "calculation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getLayout returns the stored dashboard layout migrated to the current
// schema version. A missing layout degrades to an empty current-version one.
func (h *Handler) getLayout(w http.ResponseWriter, r *http.Request) {
	raw, err := h.store.GetLayout(r.Context())
	if err != nil {
		zap.L().Error("get layout", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get layout")
		return
	}
	writeJSON(w, http.StatusOK, migrate.LoadLayout(raw))
}

func (h *Handler) saveLayout(w http.ResponseWriter, r *http.Request) {
	var widgets []model.Widget
	if !decode(w, r, &widgets) {
		return
	}

	layout := migrate.PrepareForStorage(widgets)
	raw, err := json.Marshal(layout)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode layout")
		return
	}
	if err := h.store.SaveLayout(r.Context(), raw); err != nil {
		zap.L().Error("save layout", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save layout")
		return
	}
	writeJSON(w, http.StatusOK, layout)
}
