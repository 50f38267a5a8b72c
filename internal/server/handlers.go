package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/pathfind"
	"github.com/vanshika/citynav/internal/service"
)

// APIHandlers exposes HTTP handlers for the navigation API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.NavigationService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.NavigationService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	page, err := h.service.ListNodes(service.ListNodesParams{
		Page:     parseInt(query.Get("page"), 1),
		PageSize: parseInt(query.Get("pageSize"), 50),
		Search:   query.Get("search"),
	})
	if err != nil {
		h.writeNavError(w, err, "list nodes")
		return
	}

	response := nodesResponse{
		Items: make([]nodeResponse, 0, len(page.Items)),
		Pagination: paginationResponse{
			Page:       page.Pagination.Page,
			PageSize:   page.Pagination.PageSize,
			TotalItems: page.Pagination.TotalItems,
			TotalPages: page.Pagination.TotalPages,
		},
	}
	for _, n := range page.Items {
		response.Items = append(response.Items, toNodeResponse(n))
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleNode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/nodes/"), "/")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "node id must be an integer")
		return
	}

	node, err := h.service.Node(id)
	if err != nil {
		h.writeNavError(w, err, "get node")
		return
	}
	respondJSON(w, http.StatusOK, toNodeResponse(node))
}

func (h *APIHandlers) handlePath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	from, to, err := parsePair(query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reverse := false
	if raw := query.Get("reverse"); raw != "" {
		reverse, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "reverse must be a boolean")
			return
		}
	}

	edges, err := h.service.Path(from, to, reverse)
	if err != nil {
		h.writeNavError(w, err, "reconstruct path")
		return
	}

	response := pathResponse{
		From:    from,
		To:      to,
		Reverse: reverse,
		Hops:    len(edges),
		Edges:   make([]edgeResponse, 0, len(edges)),
	}
	for _, e := range edges {
		response.Edges = append(response.Edges, edgeResponse{From: e.From, To: e.To})
	}
	if !reverse {
		// Derived from the same edges so both fields describe one snapshot.
		response.Nodes = make([]int, 0, len(edges)+1)
		response.Nodes = append(response.Nodes, from)
		for _, e := range edges {
			response.Nodes = append(response.Nodes, e.To)
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleDistance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	from, to, err := parsePair(query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dist, err := h.service.Distance(from, to)
	if err != nil {
		h.writeNavError(w, err, "distance")
		return
	}
	respondJSON(w, http.StatusOK, distanceResponse{From: from, To: to, Distance: dist})
}

func (h *APIHandlers) handleNodeAtDistance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	from, distance, err := parsePair(query.Get("from"), query.Get("distance"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.service.RandomNodeAtDistance(from, distance)
	if err != nil {
		h.writeNavError(w, err, "node at distance")
		return
	}
	respondJSON(w, http.StatusOK, nodeAtDistanceResponse{From: from, Distance: distance, Node: node})
}

func (h *APIHandlers) handleConnections(w http.ResponseWriter, r *http.Request) {
	var apply func(*http.Request, int, int) error
	switch r.Method {
	case http.MethodPost:
		apply = func(r *http.Request, a, b int) error { return h.service.Connect(r.Context(), a, b) }
	case http.MethodDelete:
		apply = func(r *http.Request, a, b int) error { return h.service.Disconnect(r.Context(), a, b) }
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
		return
	}

	var payload connectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.From == nil || payload.To == nil {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	if err := apply(r, *payload.From, *payload.To); err != nil {
		h.writeNavError(w, err, "update connection")
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	c := domain.NewConnection(*payload.From, *payload.To)
	respondJSON(w, status, connectionResponse{Status: "ok", From: c.A, To: c.B})
}

func (h *APIHandlers) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := h.service.Reload(r.Context()); err != nil {
		h.logger.Error("reload failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to reload map")
		return
	}
	h.handleStats(w, r)
}

func (h *APIHandlers) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats, err := h.service.Stats()
	if err != nil {
		h.writeNavError(w, err, "stats")
		return
	}
	loadedAt, _ := h.service.LoadedAt()
	respondJSON(w, http.StatusOK, statsResponse{GraphStats: stats, LoadedAt: formatTime(loadedAt)})
}

// writeNavError maps navigation errors onto HTTP status codes.
func (h *APIHandlers) writeNavError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, pathfind.ErrUnknownNode):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pathfind.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":  err.Error(),
			"reason": notFoundReason(err),
		})
	case errors.Is(err, pathfind.ErrInvalidDistance), errors.Is(err, service.ErrSelfConnection):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pathfind.ErrCorruptTable):
		h.logger.Error("navigation table inconsistency", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "navigation data is inconsistent")
	default:
		h.logger.Error("navigation request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to %s", op))
	}
}

func notFoundReason(err error) string {
	switch {
	case errors.Is(err, pathfind.ErrUnreachable):
		return "unreachable"
	case errors.Is(err, pathfind.ErrNoNodeAtDistance):
		return "no_node_at_distance"
	default:
		return "not_found"
	}
}

type nodeResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Neighbors []int  `json:"neighbors"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type nodesResponse struct {
	Items      []nodeResponse     `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type edgeResponse struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type pathResponse struct {
	From    int            `json:"from"`
	To      int            `json:"to"`
	Reverse bool           `json:"reverse"`
	Hops    int            `json:"hops"`
	Edges   []edgeResponse `json:"edges"`
	Nodes   []int          `json:"nodes,omitempty"`
}

type distanceResponse struct {
	From     int `json:"from"`
	To       int `json:"to"`
	Distance int `json:"distance"`
}

type nodeAtDistanceResponse struct {
	From     int `json:"from"`
	Distance int `json:"distance"`
	Node     int `json:"node"`
}

type connectionRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type connectionResponse struct {
	Status string `json:"status"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

type statsResponse struct {
	domain.GraphStats
	LoadedAt string `json:"loadedAt,omitempty"`
}

func toNodeResponse(n domain.MapNode) nodeResponse {
	neighbors := n.Neighbors
	if neighbors == nil {
		neighbors = []int{}
	}
	return nodeResponse{ID: n.ID, Name: n.Name, Neighbors: neighbors}
}

func parsePair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmtError("missing or invalid integer parameter")
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmtError("missing or invalid integer parameter")
	}
	return x, y, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func fmtError(msg string) error {
	return errors.New(msg)
}
