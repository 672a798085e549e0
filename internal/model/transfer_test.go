package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransferRequest_MarshalPriceAsNumber(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	stock := 3
	body, err := json.Marshal(TransferRequest{ProductID: 1, WarehouseID: 5, CurrentWarehouseID: 2, Price: &price, Stock: &stock})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ProductId":1,"WarehouseId":5,"Price":12.5,"Stock":3}`
	if string(body) != want {
		t.Fatalf("got %s, want %s", body, want)
	}

	var back TransferRequest
	if err := json.Unmarshal(body, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Price == nil || !back.Price.Equal(price) || back.CurrentWarehouseID != 0 {
		t.Fatalf("unexpected round trip %+v", back)
	}
}

func TestTransferRequest_MarshalOmitsUnsetOverrides(t *testing.T) {
	body, err := json.Marshal(TransferRequest{ProductID: 1, WarehouseID: 5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"ProductId":1,"WarehouseId":5}`; string(body) != want {
		t.Fatalf("got %s, want %s", body, want)
	}
}
