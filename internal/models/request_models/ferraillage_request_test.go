package request_models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

func TestDate_UnmarshalDateOnly(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-08-14"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC)
	if !d.Time.Equal(want) {
		t.Errorf("got %v, want %v", d.Time, want)
	}
}

func TestDate_UnmarshalRFC3339NormalizesToMidnight(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-08-14T18:45:00+02:00"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC)
	if !d.Time.Equal(want) {
		t.Errorf("got %v, want %v", d.Time, want)
	}
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"14/08/2024"`), &d); err == nil {
		t.Error("expected an error for a non-ISO date")
	}
}

func TestDate_MarshalDateOnly(t *testing.T) {
	d := Date{Time: time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC)}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-08-14"` {
		t.Errorf("got %s", out)
	}
}

// The three JSON states — omitted, null, and a value — must stay
// distinguishable after decoding.
func TestNullableString_TriState(t *testing.T) {
	type payload struct {
		Note NullableString `json:"note"`
	}

	var omitted payload
	if err := json.Unmarshal([]byte(`{}`), &omitted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if omitted.Note.Set {
		t.Error("omitted field must not be Set")
	}

	var null payload
	if err := json.Unmarshal([]byte(`{"note":null}`), &null); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !null.Note.Set || null.Note.Value != nil {
		t.Errorf("null field: Set=%v Value=%v", null.Note.Set, null.Note.Value)
	}

	var valued payload
	if err := json.Unmarshal([]byte(`{"note":"hello"}`), &valued); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !valued.Note.Set || valued.Note.Value == nil || *valued.Note.Value != "hello" {
		t.Errorf("valued field: Set=%v Value=%v", valued.Note.Set, valued.Note.Value)
	}
}

func TestMouvementCreateRequest_LigneRequiresQty(t *testing.T) {
	var req MouvementCreateRequest
	body := []byte(`{"date":"2024-08-14","lignes":[{"mm":6}]}`)
	if err := binding.JSON.BindBody(body, &req); err == nil {
		t.Error("line without qty should fail binding")
	}

	req = MouvementCreateRequest{}
	body = []byte(`{"date":"2024-08-14","lignes":[{"mm":6,"qty":"2.063"},{"mm":8,"qty":0}]}`)
	if err := binding.JSON.BindBody(body, &req); err != nil {
		t.Fatalf("string and explicit-zero quantities should bind: %v", err)
	}
	if !req.Lignes[0].Qty.Equal(decimal.RequireFromString("2.063")) {
		t.Errorf("qty = %v, want 2.063", req.Lignes[0].Qty)
	}
	if !req.Lignes[1].Qty.IsZero() {
		t.Errorf("qty = %v, want 0", req.Lignes[1].Qty)
	}
}
