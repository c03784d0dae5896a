package chi

import (
	"encoding/json"
	"net/http"
)

type listResponse struct {
	Items []json.RawMessage `json:"items"`
}

// OntologyTree handles GET /v1/ontology-tree.
func (s *Server) OntologyTree(w http.ResponseWriter, r *http.Request) {
	var (
		rootID     *string
		leavesOnly *bool
	)
	if err := bindQuery(r, "rootId", false, &rootID); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := bindQuery(r, "leavesOnly", false, &leavesOnly); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	items, err := s.search.OntologyTree(r.Context(), deref(rootID), deref(leavesOnly))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items})
}

// OntologyWords handles GET /v1/ontology-words. Without ids every word is returned.
func (s *Server) OntologyWords(w http.ResponseWriter, r *http.Request) {
	var ids *[]string
	if err := bindQuery(r, "ids", false, &ids); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	items, err := s.search.OntologyWords(r.Context(), deref(ids))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items})
}

// AdministrativeDivisions handles GET /v1/administrative-divisions.
func (s *Server) AdministrativeDivisions(w http.ResponseWriter, r *http.Request) {
	var helsinkiCommonOnly *bool
	if err := bindQuery(r, "helsinkiCommonOnly", false, &helsinkiCommonOnly); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	items, err := s.search.AdministrativeDivisions(r.Context(), deref(helsinkiCommonOnly))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items})
}
