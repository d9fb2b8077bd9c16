package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/ledger"
)

// ImportsHandler handles bulk transaction import. The body is either a JSON
// array of items or a CSV statement export, selected by Content-Type.
type ImportsHandler struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

func NewImportsHandler(l *ledger.Ledger, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{ledger: l, log: log}
}

type importRequest struct {
	Transactions []ledger.ImportItem `json:"transactions"`
}

// Import handles POST /api/wallets/{walletId}/transactions/import
func (h *ImportsHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	items, err := h.decodeItems(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(items) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "no transactions to import")
		return
	}

	res, err := h.ledger.Import(r.Context(), userID, walletID, items)
	if err != nil {
		writeFailure(w, h.log, err, "import transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, res)
}

func (h *ImportsHandler) decodeItems(r *http.Request) ([]ledger.ImportItem, error) {
	mediaType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = mt
	}

	if mediaType == "text/csv" {
		var items []ledger.ImportItem
		if err := gocsv.Unmarshal(r.Body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return req.Transactions, nil
}
