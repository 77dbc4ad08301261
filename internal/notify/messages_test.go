package notify

import (
	"testing"
	"time"
)

func TestTransactionChangedRoundTrip(t *testing.T) {
	msg := NewTransactionChanged("tx-1", "acc-1", true)
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := TransactionChangedFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TransactionID != "tx-1" || decoded.AccountID != "acc-1" || !decoded.Deleted {
		t.Fatalf("round trip changed message: %+v", decoded)
	}
}

func TestTransactionChangedFromJSONInvalid(t *testing.T) {
	if _, err := TransactionChangedFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestNewNotification(t *testing.T) {
	n := NewNotification(KindWarning, "budget nearly used up")
	if n.Kind != KindWarning || n.Message != "budget nearly used up" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if time.Since(n.Timestamp) > time.Minute {
		t.Fatal("timestamp not recent")
	}
}
