package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"transit-pathset-service/internal/api/dto"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/services"
)

const (
	maxBodyBytes = 8 << 20
	maxRequests  = 1000
)

// PathSetEvaluator is the part of services.PathSetService the handler needs.
type PathSetEvaluator interface {
	EvaluateBatch(ctx context.Context, reqs []services.EvaluateRequest) ([]*services.EvaluateResult, error)
	Exporter() *services.Exporter
}

type PathSetHandler struct {
	Service PathSetEvaluator
	Logger  *slog.Logger
}

// Evaluate scores the candidate itineraries of each request and returns
// the ranked path sets in request order.
func (h *PathSetHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.EvaluatePathSetsRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(h.logger(), w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(h.logger(), w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Requests) == 0 {
		writeError(h.logger(), w, r, http.StatusBadRequest, "requests is required")
		return
	}
	if len(req.Requests) > maxRequests {
		writeError(h.logger(), w, r, http.StatusBadRequest, fmt.Sprintf("at most %d requests per call", maxRequests))
		return
	}

	evalReqs := make([]services.EvaluateRequest, 0, len(req.Requests))
	for i, pr := range req.Requests {
		er, err := toEvaluateRequest(pr)
		if err != nil {
			writeError(h.logger(), w, r, http.StatusBadRequest, fmt.Sprintf("requests[%d]: %v", i, err))
			return
		}
		evalReqs = append(evalReqs, er)
	}

	results, err := h.Service.EvaluateBatch(r.Context(), evalReqs)
	if err != nil {
		if isLookupError(err) {
			writeError(h.logger(), w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger().Error("evaluate path sets failed", "err", err)
		writeError(h.logger(), w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	exp := h.Service.Exporter()
	res := dto.EvaluatePathSetsResponse{PathSets: make([]dto.PathSetResponse, 0, len(results))}
	for _, result := range results {
		res.PathSets = append(res.PathSets, toPathSetResponse(result, exp))
	}

	writeJSON(h.logger(), w, r, http.StatusOK, res)
}

func (h *PathSetHandler) logger() *slog.Logger { return loggerOrDefault(h.Logger) }

func isLookupError(err error) bool {
	for _, target := range []error{
		services.ErrNoWeights,
		services.ErrNoAttributes,
		services.ErrUnknownTrip,
		services.ErrNoStopTime,
		services.ErrDirectionMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func toEvaluateRequest(pr dto.PathSetRequest) (services.EvaluateRequest, error) {
	phase, err := domain.ParseBuildPhase(pr.Phase)
	if err != nil {
		return services.EvaluateRequest{}, err
	}

	er := services.EvaluateRequest{
		Spec: domain.PathSpec{
			PathID:         pr.PathID,
			Iteration:      pr.Iteration,
			Outbound:       pr.Outbound,
			Trace:          pr.Trace,
			OriginTAZ:      pr.OriginTAZ,
			DestinationTAZ: pr.DestinationTAZ,
			PreferredTime:  pr.PreferredTime,
			UserClass:      pr.UserClass,
			Purpose:        pr.Purpose,
			AccessMode:     pr.AccessMode,
			EgressMode:     pr.EgressMode,
			TransitMode:    pr.TransitMode,
		},
		Phase:      phase,
		Candidates: make([][]domain.Link, 0, len(pr.Candidates)),
	}

	for c, cand := range pr.Candidates {
		links := make([]domain.Link, 0, len(cand))
		for l, lr := range cand {
			mode, err := domain.ParseMode(lr.Mode)
			if err != nil {
				return services.EvaluateRequest{}, fmt.Errorf("candidates[%d][%d]: %w", c, l, err)
			}
			leg := domain.NewLeg(mode, pr.Outbound, lr.Depart, lr.Arrive)
			leg.TripID = lr.TripID
			leg.SupplyMode = lr.SupplyMode
			leg.Seq = lr.Seq
			leg.SuccPredStop = lr.SuccPredStop
			leg.SuccPredSeq = lr.SuccPredSeq
			leg.Duration = lr.Duration
			leg.LinkCost = lr.LinkCost
			links = append(links, domain.Link{StopID: lr.StopID, Leg: leg})
		}
		er.Candidates = append(er.Candidates, links)
	}
	return er, nil
}

// toPathSetResponse lists legs in travel order whichever way the path was assembled.
func toPathSetResponse(res *services.EvaluateResult, exp *services.Exporter) dto.PathSetResponse {
	out := dto.PathSetResponse{
		PathID:    res.PathID,
		Chosen:    res.Chosen,
		Rejected:  res.Rejected,
		Truncated: res.Truncated,
		Paths:     make([]dto.PathResponse, 0, len(res.Paths)),
		Trace:     res.Trace,
	}
	for _, ep := range res.Paths {
		p := ep.Path
		pr := dto.PathResponse{
			Compact:               ep.Compact,
			Cost:                  p.Cost(),
			Count:                 ep.Count,
			Probability:           ep.Probability,
			CumulativeProbability: ep.CumulativeProbability,
			Legs:                  make([]dto.LegResponse, 0, p.Len()),
		}
		outbound := p.Outbound()
		for _, i := range p.ChronologicalIndices() {
			link := p.At(i)
			leg := link.Leg
			pr.Legs = append(pr.Legs, dto.LegResponse{
				StopID:         link.StopID,
				Mode:           leg.Mode.String(),
				Label:          exp.ModeLabel(leg),
				TripID:         leg.TripID,
				SupplyMode:     leg.SupplyMode,
				Seq:            leg.Seq,
				SuccPredStop:   leg.SuccPredStop,
				SuccPredSeq:    leg.SuccPredSeq,
				Depart:         leg.Depart(outbound),
				Arrive:         leg.Arrive(outbound),
				DepartAt:       services.FormatTime(leg.Depart(outbound)),
				ArriveAt:       services.FormatTime(leg.Arrive(outbound)),
				Duration:       leg.Duration,
				LinkCost:       leg.LinkCost,
				CumulativeCost: leg.CumulativeCost,
			})
		}
		out.Paths = append(out.Paths, pr)
	}
	return out
}
