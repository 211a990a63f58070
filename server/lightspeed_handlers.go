package server

import (
	"net/http"
	"strconv"
)

// CustomersHandler proxies one page of the Lightspeed customer listing.
// Failures arrive already classified and flow through the error mapper.
func (s *Server) CustomersHandler() http.HandlerFunc {
	return s.API(func(w http.ResponseWriter, r *http.Request) error {
		after, pageSize := pageParams(r)
		page, err := s.services.Lightspeed.Customers(r.Context(), after, pageSize)
		if err != nil {
			return err
		}
		writeJSONStatus(w, http.StatusOK, page)
		return nil
	})
}

// SalesHandler proxies one page of the Lightspeed sales listing.
func (s *Server) SalesHandler() http.HandlerFunc {
	return s.API(func(w http.ResponseWriter, r *http.Request) error {
		after, pageSize := pageParams(r)
		page, err := s.services.Lightspeed.Sales(r.Context(), after, pageSize)
		if err != nil {
			return err
		}
		writeJSONStatus(w, http.StatusOK, page)
		return nil
	})
}

func pageParams(r *http.Request) (after int64, pageSize int) {
	after, _ = strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 100
	}
	return after, pageSize
}
