package erpsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListPurchaseOrders lists purchase orders, optionally in one status.
func (s *Session) ListPurchaseOrders(ctx context.Context, status string) ([]PurchaseOrder, error) {
	path := "/v1/purchase-orders"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var out PurchaseOrderList
	if err := s.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.PurchaseOrders, nil
}

func (s *Session) GetPurchaseOrder(ctx context.Context, id string) (*PurchaseOrder, error) {
	var po PurchaseOrder
	if err := s.getJSON(ctx, "/v1/purchase-orders/"+url.PathEscape(id), &po); err != nil {
		return nil, err
	}
	return &po, nil
}

// TransitionPurchaseOrder moves a purchase order to status. Disallowed moves
// come back as an *APIError with code invalid_transition.
func (s *Session) TransitionPurchaseOrder(ctx context.Context, id, status string) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := s.sendJSON(ctx, http.MethodPost, "/v1/purchase-orders/"+url.PathEscape(id)+"/transition",
		TransitionRequest{Status: status}, &po, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// ReceivePurchaseOrder books delivered quantities into stock.
func (s *Session) ReceivePurchaseOrder(ctx context.Context, id string, lines []ReceiptLine) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := s.sendJSON(ctx, http.MethodPost, "/v1/purchase-orders/"+url.PathEscape(id)+"/receive",
		ReceiveRequest{Lines: lines}, &po, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &po, nil
}
