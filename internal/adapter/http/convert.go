package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/levity-measure/internal/units"
)

type errorResponse struct {
	Error string `json:"error"`
}

type unitsResponse struct {
	Units    []string `json:"units"`
	Specials []string `json:"specials"`
}

// handleConvert converts ?value= from ?from= to ?to=. Scalar tags convert
// directly; compound identifiers such as "m/s" or "mph" convert numerator
// and denominator separately.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := convertQuery(q.Get("value"), q.Get("from"), q.Get("to"))
	if err != nil {
		s.metrics.ConversionRequests.WithLabelValues("error").Inc()
		s.logger.Debug("conversion rejected", "from", q.Get("from"), "to", q.Get("to"), "error", err)
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.ConversionRequests.WithLabelValues("ok").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleUnits(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, unitsResponse{
		Units:    s.registry.Vocabulary(),
		Specials: s.registry.SpecialNames(),
	})
}

var errMissingParam = errors.New("value, from and to are required")

func convertQuery(rawValue, from, to string) (units.Measurement, error) {
	if rawValue == "" || from == "" || to == "" {
		return nil, errMissingParam
	}
	v, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return nil, fmt.Errorf("parse value %q: %w", rawValue, err)
	}
	return units.ConvertIdentifier(v, from, to)
}
